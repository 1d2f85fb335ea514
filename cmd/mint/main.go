package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tokendrop/internal/buildinfo"
	"github.com/dmitrijs2005/tokendrop/internal/config"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
	"github.com/dmitrijs2005/tokendrop/internal/mint"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := mint.NewApp(cfg, logging.NewDefault())

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
