package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mangaden/mangaden/pkg/lermanga"
	"github.com/mangaden/mangaden/pkg/mangadex"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	catalogService *Service
}

func (h *handler) home(c echo.Context) error {
	ctx := c.Request().Context()

	sections, err := h.catalogService.Home(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, sections))
}

func (h *handler) popular(c echo.Context) error {
	ctx := c.Request().Context()

	mangas, err := h.catalogService.Popular(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"mangas": mangas}))
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := SearchQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	mangas := h.catalogService.Search(ctx, params.Query)

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"mangas": mangas}))
}

func (h *handler) filterByTags(c echo.Context) error {
	ctx := c.Request().Context()

	params := TagFilterQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	mangas, err := h.catalogService.FilterByTags(ctx, mangadex.FilterOptions{
		IncludedTags: params.IncludedTags,
		ExcludedTags: params.ExcludedTags,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"mangas": mangas}))
}

func (h *handler) filterByGenres(c echo.Context) error {
	ctx := c.Request().Context()

	params := GenreFilterQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	mangas := h.catalogService.FilterByGenres(ctx, lermanga.FilterOptions{
		Genres: params.Genres,
		Status: params.Status,
		Order:  params.Order,
		Page:   params.Page,
	})

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"mangas": mangas}))
}

func (h *handler) tags(c echo.Context) error {
	ctx := c.Request().Context()

	tags, err := h.catalogService.Tags(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"tags": tags}))
}

func (h *handler) genres(c echo.Context) error {
	ctx := c.Request().Context()

	genres := h.catalogService.Genres(ctx)

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"genres": genres}))
}

func (h *handler) mangaDetails(c echo.Context) error {
	ctx := c.Request().Context()

	source, err := models.ParseSource(c.Param("source"))
	if err != nil {
		return err
	}

	manga, err := h.catalogService.MangaDetails(ctx, source, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, manga))
}

func (h *handler) chapters(c echo.Context) error {
	ctx := c.Request().Context()

	source, err := models.ParseSource(c.Param("source"))
	if err != nil {
		return err
	}

	chapters, err := h.catalogService.Chapters(ctx, source, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"chapters": chapters}))
}

func (h *handler) chapterPages(c echo.Context) error {
	ctx := c.Request().Context()

	source, err := models.ParseSource(c.Param("source"))
	if err != nil {
		return err
	}

	params := ChapterPagesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	pages, err := h.catalogService.ChapterPages(ctx, source, c.Param("id"), params.Slug)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"pages": pages}))
}
