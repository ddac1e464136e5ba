package archive

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	archiveService *Service
}

func (h *handler) downloadChapter(c echo.Context) error {
	ctx := c.Request().Context()

	source, err := models.ParseSource(c.Param("source"))
	if err != nil {
		return err
	}

	params := DownloadQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	chapterID := c.Param("id")
	pages, err := h.archiveService.FetchChapterPages(ctx, source, chapterID, params.Slug)
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/zip")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "chapter-"+chapterID+".zip"))
	c.Response().WriteHeader(http.StatusOK)

	return errors.WithStack(WriteZip(c.Response().Writer, pages))
}
