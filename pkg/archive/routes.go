package archive

import (
	"github.com/labstack/echo/v4"
	"github.com/mangaden/mangaden/pkg/config"
)

// RegisterRoutesWithGroup registers download routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, resolver PageResolver, cfg *config.Config) {
	archiveService := NewService(resolver, cfg)

	h := &handler{
		archiveService: archiveService,
	}

	g.GET("/chapters/:source/:id", h.downloadChapter)
}
