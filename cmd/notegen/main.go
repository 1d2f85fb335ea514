package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tokendrop/internal/buildinfo"
	"github.com/dmitrijs2005/tokendrop/internal/config"
	"github.com/dmitrijs2005/tokendrop/internal/drop"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := drop.NewApp(drop.KindNote, cfg, logging.NewDefault())

	res, err := app.Run(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("Generated %d token(s) under %s", len(res.Records), res.SeriesPath)
}
