package api

import (
	"github.com/rs/zerolog/log"
	"github.com/transitboard/transitboard/pkg/board"
	"github.com/transitboard/transitboard/pkg/feedmanager"
	"github.com/transitboard/transitboard/pkg/redis_client"
	"github.com/transitboard/transitboard/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "definition",
						Value: "data/feed.yaml",
						Usage: "path to the feed definition file",
					},
				},
				Action: func(c *cli.Context) error {
					definition, err := feedmanager.LoadDefinition(c.String("definition"))
					if err != nil {
						return err
					}

					feedCache := board.NewCache(feedmanager.NewManager(definition))
					if err := feedCache.Load(false); err != nil {
						return err
					}

					var results *CachedResults
					if util.GetEnvironmentVariables()["TRANSITBOARD_REDIS_ADDRESS"] != "" {
						if err := redis_client.Connect(); err != nil {
							log.Warn().Err(err).Msg("Failed to connect to Redis, response caching disabled")
						} else {
							results = &CachedResults{}
							results.Setup()
						}
					}

					return SetupServer(c.String("listen"), feedCache, results)
				},
			},
		},
	}
}
