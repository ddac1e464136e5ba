package library

import (
	"github.com/labstack/echo/v4"
	"github.com/mangaden/mangaden/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers library routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	libraryService := NewService(db)

	h := &handler{
		libraryService: libraryService,
	}

	// Favorites
	g.GET("/favorites", h.listFavorites, authMiddleware.Authenticate)
	g.POST("/favorites", h.addFavorite, authMiddleware.Authenticate)
	g.DELETE("/favorites/:mangaId", h.removeFavorite, authMiddleware.Authenticate)
	g.GET("/favorites/status", h.favoriteStatus, authMiddleware.Authenticate)

	// Reading progress
	g.PUT("/progress", h.saveProgress, authMiddleware.Authenticate)
	g.GET("/progress", h.retrieveProgress, authMiddleware.Authenticate)
	g.GET("/continue-reading", h.continueReading, authMiddleware.Authenticate)
	g.GET("/history", h.listHistory, authMiddleware.Authenticate)

	// Aggregate counts, readable without a session
	g.GET("/mangas/:source/:id/stats", h.stats)

	// Comments
	g.GET("/comments/manga/:source/:id", h.listMangaComments, authMiddleware.AuthenticateOptional)
	g.POST("/comments/manga/:source/:id", h.addMangaComment, authMiddleware.Authenticate)
	g.GET("/comments/chapter/:chapterId", h.listChapterComments, authMiddleware.AuthenticateOptional)
	g.GET("/comments/chapter/:chapterId/count", h.countChapterComments)
	g.POST("/comments/chapter/:chapterId", h.addChapterComment, authMiddleware.Authenticate)
	g.GET("/comments/:id/replies", h.listReplies, authMiddleware.AuthenticateOptional)
	g.PATCH("/comments/:id", h.updateComment, authMiddleware.Authenticate)
	g.DELETE("/comments/:id", h.deleteComment, authMiddleware.Authenticate)
	g.POST("/comments/:id/like", h.likeComment, authMiddleware.Authenticate)
	g.DELETE("/comments/:id/like", h.unlikeComment, authMiddleware.Authenticate)
}
