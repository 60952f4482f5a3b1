package routes

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/transitboard/transitboard/pkg/board"
	"github.com/transitboard/transitboard/pkg/transit"
)

// ResultsCache memoises marshalled responses across requests. Implementations
// may be backed by redis; a nil-backed implementation is a no-op.
type ResultsCache interface {
	Get(key string) (string, bool)
	Set(key string, value string)
	Clear()
}

func RoutesRouter(router fiber.Router, feedCache *board.Cache, results ResultsCache) {
	router.Get("/", listRoutes(feedCache))
	router.Get("/:identifier", getRoute(feedCache))
	router.Get("/:identifier/schedules", getRouteSchedules(feedCache, results))
}

func listRoutes(feedCache *board.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		routes := feedCache.SearchRoutes(c.Query("origin"), c.Query("destination"))
		if routes == nil {
			routes = []transit.Route{}
		}

		routesReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, routes)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce routes",
			})
		}

		return c.JSON(routesReduced)
	}
}

func getRoute(feedCache *board.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")

		for _, route := range feedCache.Routes() {
			if route.RouteID != identifier {
				continue
			}

			routeReduced, err := sheriff.Marshal(&sheriff.Options{
				Groups: []string{"basic", "detailed"},
			}, route)
			if err != nil {
				c.SendStatus(fiber.StatusInternalServerError)
				return c.JSON(fiber.Map{
					"error": "Sherrif could not reduce route",
				})
			}

			return c.JSON(routeReduced)
		}

		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Route matching Route Identifier",
		})
	}
}

func getRouteSchedules(feedCache *board.Cache, results ResultsCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")
		stopIdentifier := c.Query("stop")

		cacheKey := fmt.Sprintf("schedules/%s/%s", identifier, stopIdentifier)
		if cached, hit := results.Get(cacheKey); hit {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(cached)
		}

		schedules := feedCache.Schedules(identifier, stopIdentifier)
		if schedules == nil {
			schedules = []transit.Schedule{}
		}

		schedulesReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, schedules)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce schedules",
			})
		}

		body, err := json.Marshal(schedulesReduced)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Could not marshal schedules",
			})
		}

		results.Set(cacheKey, string(body))

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}
}
