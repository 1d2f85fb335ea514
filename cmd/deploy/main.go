package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/tokendrop/internal/buildinfo"
	"github.com/dmitrijs2005/tokendrop/internal/chain"
	"github.com/dmitrijs2005/tokendrop/internal/config"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
	"github.com/dmitrijs2005/tokendrop/internal/prompt"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewDefault()
	p := prompt.NewStdio()

	seriesID, err := p.AskRequired("Series id", "")
	if err != nil {
		log.Fatalf("%v", err)
	}
	maxSupply, err := p.AskInt("Max supply", 1000)
	if err != nil {
		log.Fatalf("%v", err)
	}

	client, err := chain.Dial(ctx, cfg.RPCURL, cfg.PrivateKey, cfg.ChainID, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer client.Close()

	ok, err := p.Confirm(fmt.Sprintf("Deploy series %s with supply %d on %s?",
		seriesID, maxSupply, cfg.Network), false)
	if err != nil || !ok {
		return
	}

	contract, err := client.Deploy(ctx, cfg.ArtifactPath, client.SignerAddress(), seriesID, int64(maxSupply))
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("Deployed %s at %s", seriesID, contract.Address().Hex())
	log.Printf("Set CONTRACT_ADDRESS=%s to use it as the default", contract.Address().Hex())
}
