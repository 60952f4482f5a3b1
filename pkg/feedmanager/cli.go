package feedmanager

import (
	"github.com/rs/zerolog/log"
	"github.com/transitboard/transitboard/pkg/board"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "Manage the GTFS feed",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "fetch the feed and build the derived views once",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "definition",
						Value: "data/feed.yaml",
						Usage: "path to the feed definition file",
					},
				},
				Action: func(c *cli.Context) error {
					definition, err := LoadDefinition(c.String("definition"))
					if err != nil {
						return err
					}

					feedCache := board.NewCache(NewManager(definition))
					if err := feedCache.Load(true); err != nil {
						return err
					}

					routes := feedCache.Routes()
					for _, route := range routes {
						log.Debug().
							Str("route", route.RouteID).
							Str("origin", route.Origin).
							Str("destination", route.Destination).
							Int("stops", len(route.Stops)).
							Msg("Imported route")
					}

					log.Info().
						Str("feed", definition.Identifier).
						Int("stops", len(feedCache.Stops())).
						Int("routes", len(routes)).
						Msg("Feed imported")

					return nil
				},
			},
		},
	}
}
