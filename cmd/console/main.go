package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tokendrop/internal/buildinfo"
	"github.com/dmitrijs2005/tokendrop/internal/chain"
	"github.com/dmitrijs2005/tokendrop/internal/config"
	"github.com/dmitrijs2005/tokendrop/internal/console"
	"github.com/dmitrijs2005/tokendrop/internal/drop"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
	"github.com/dmitrijs2005/tokendrop/internal/pinning"
	"github.com/dmitrijs2005/tokendrop/internal/prompt"
	"github.com/dmitrijs2005/tokendrop/internal/render"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewDefault()

	client, err := chain.Dial(ctx, cfg.RPCURL, cfg.PrivateKey, cfg.ChainID, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer client.Close()

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("%v", err)
	}
	pinner := pinning.NewClient(cfg.PinataAPIKey, cfg.PinataSecretKey, cfg.PinataJWT, logger)
	if err := pinner.CheckCredentials(); err != nil {
		logger.Warn(ctx, "pinning credentials not verified, mint runs without pinning will still work", "error", err)
	}
	generator := drop.NewGenerator(renderer, pinner, logger)

	app := console.NewApp(cfg, client, generator, prompt.NewStdio(), logger)
	app.Run(ctx)
}
