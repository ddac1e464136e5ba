package profiles

import (
	"github.com/labstack/echo/v4"
	"github.com/mangaden/mangaden/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers profile routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	profileService := NewService(db)

	h := &handler{
		profileService: profileService,
	}

	g.GET("/me", h.me, authMiddleware.Authenticate)
	g.PATCH("/me", h.updateMe, authMiddleware.Authenticate)
	g.GET("/:username", h.retrieveByUsername)
}
