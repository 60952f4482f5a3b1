package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/transitboard/transitboard/pkg/api"
	"github.com/transitboard/transitboard/pkg/feedmanager"
	"github.com/urfave/cli/v2"
)

func main() {
	if os.Getenv("TRANSITBOARD_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRANSITBOARD_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "transitboard",
		Description: "GTFS schedule ingest and query service - runs all the services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			feedmanager.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
