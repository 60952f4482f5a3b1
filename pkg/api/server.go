package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/transitboard/transitboard/pkg/api/routes"
	"github.com/transitboard/transitboard/pkg/board"
)

// CreateApp assembles the web application without binding a listener, which
// keeps the whole route surface testable in-process.
func CreateApp(feedCache *board.Cache, results *CachedResults) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.RoutesRouter(group.Group("/routes"), feedCache, results)
	routes.StopsRouter(group.Group("/stops"), feedCache)
	routes.FeedRouter(group.Group("/feed"), feedCache, results)

	return webApp
}

func SetupServer(listen string, feedCache *board.Cache, results *CachedResults) error {
	return CreateApp(feedCache, results).Listen(listen)
}
