package imageproxy

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mangaden/mangaden/pkg/config"
)

// RegisterRoutesWithGroup registers image proxy routes on a pre-configured
// group.
func RegisterRoutesWithGroup(g *echo.Group, cfg *config.Config) {
	h := &handler{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
	}

	g.GET("/:source", h.image)
}
