package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mangaden/mangaden/pkg/archive"
	"github.com/mangaden/mangaden/pkg/auth"
	"github.com/mangaden/mangaden/pkg/binder"
	"github.com/mangaden/mangaden/pkg/catalog"
	"github.com/mangaden/mangaden/pkg/config"
	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/imageproxy"
	"github.com/mangaden/mangaden/pkg/lermanga"
	"github.com/mangaden/mangaden/pkg/library"
	"github.com/mangaden/mangaden/pkg/mangadex"
	"github.com/mangaden/mangaden/pkg/profiles"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	authService := auth.NewService(cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	catalogService := catalog.NewService(mangadex.NewClient(cfg), lermanga.NewClient(cfg))

	// Catalog reads are public; user state lives under the library and
	// profile groups with per-route auth.
	catalog.RegisterRoutesWithGroup(e.Group("/catalog"), catalogService)
	library.RegisterRoutesWithGroup(e.Group("/library"), db, authMiddleware)
	profiles.RegisterRoutesWithGroup(e.Group("/profiles"), db, authMiddleware)
	imageproxy.RegisterRoutesWithGroup(e.Group("/images"), cfg)
	archive.RegisterRoutesWithGroup(e.Group("/download"), catalogService, cfg)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
