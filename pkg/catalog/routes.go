package catalog

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers catalog routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, catalogService *Service) {
	h := &handler{
		catalogService: catalogService,
	}

	g.GET("/home", h.home)
	g.GET("/popular", h.popular)
	g.GET("/search", h.search)
	g.GET("/filter/tags", h.filterByTags)
	g.GET("/filter/genres", h.filterByGenres)
	g.GET("/tags", h.tags)
	g.GET("/genres", h.genres)
	g.GET("/manga/:source/:id", h.mangaDetails)
	g.GET("/manga/:source/:id/chapters", h.chapters)
	g.GET("/chapters/:source/:id/pages", h.chapterPages)
}
