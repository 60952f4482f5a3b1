package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/transitboard/transitboard/pkg/board"
)

func FeedRouter(router fiber.Router, feedCache *board.Cache, results ResultsCache) {
	router.Post("/reload", reloadFeed(feedCache, results))
}

func reloadFeed(feedCache *board.Cache, results ResultsCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := feedCache.Reload(); err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Failed to reload the feed",
			})
		}

		results.Clear()

		return c.JSON(fiber.Map{
			"status": "reloaded",
		})
	}
}
