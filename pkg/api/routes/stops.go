package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/transitboard/transitboard/pkg/board"
	"github.com/transitboard/transitboard/pkg/transit"
)

func StopsRouter(router fiber.Router, feedCache *board.Cache) {
	router.Get("/", listStops(feedCache))
	router.Get("/search", searchStops(feedCache))
}

func listStops(feedCache *board.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stops := feedCache.Stops()
		if stops == nil {
			stops = []transit.Stop{}
		}

		stopsReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, stops)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce stops",
			})
		}

		return c.JSON(stopsReduced)
	}
}

func searchStops(feedCache *board.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stops := feedCache.SearchStops(c.Query("q"))
		if stops == nil {
			stops = []transit.Stop{}
		}

		stopsReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, stops)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce stops",
			})
		}

		return c.JSON(stopsReduced)
	}
}
