package library

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mangaden/mangaden/pkg/auth"
	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	libraryService *Service
}

func (h *handler) listFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	favorites, err := h.libraryService.ListFavorites(ctx, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"favorites": favorites}))
}

func (h *handler) addFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := AddFavoritePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	source, err := models.ParseSource(params.Source)
	if err != nil {
		return err
	}

	favorite, err := h.libraryService.AddFavorite(ctx, userID, source, params.ID, MangaAttributes{
		Title:       params.Title,
		Description: params.Description,
		CoverURL:    params.CoverURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, favorite))
}

func (h *handler) removeFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	mangaID, err := strconv.Atoi(c.Param("mangaId"))
	if err != nil {
		return errcodes.NotFound("Manga")
	}

	if err := h.libraryService.RemoveFavorite(ctx, userID, mangaID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) favoriteStatus(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := MangaRefQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	source, err := models.ParseSource(params.Source)
	if err != nil {
		return err
	}

	favorite, err := h.libraryService.IsFavorite(ctx, userID, source, params.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"favorite": favorite}))
}

func (h *handler) saveProgress(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := SaveProgressPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	source, err := models.ParseSource(params.Source)
	if err != nil {
		return err
	}

	progress, err := h.libraryService.SaveProgress(ctx, userID, source, params.ID, MangaAttributes{
		Title:       params.Title,
		Description: params.Description,
		CoverURL:    params.CoverURL,
	}, ChapterRef{
		ID:     params.ChapterID,
		Number: params.ChapterNumber,
	}, params.Page)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, progress))
}

func (h *handler) retrieveProgress(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := MangaRefQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	source, err := models.ParseSource(params.Source)
	if err != nil {
		return err
	}

	progress, err := h.libraryService.RetrieveProgress(ctx, userID, source, params.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"progress": progress}))
}

func (h *handler) continueReading(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	rows, err := h.libraryService.ListContinueReading(ctx, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"continue_reading": rows}))
}

func (h *handler) listHistory(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := ListHistoryQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	entries, err := h.libraryService.ListHistory(ctx, userID, params.Limit, params.Offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"history": entries}))
}

func (h *handler) stats(c echo.Context) error {
	ctx := c.Request().Context()

	source, err := models.ParseSource(c.Param("source"))
	if err != nil {
		return err
	}

	stats, err := h.libraryService.Stats(ctx, source, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, stats))
}
