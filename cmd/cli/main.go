package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/resumefit/internal/buildinfo"
	"github.com/dmitrijs2005/resumefit/internal/client/cli"
	"github.com/dmitrijs2005/resumefit/internal/client/config"
	"github.com/dmitrijs2005/resumefit/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
