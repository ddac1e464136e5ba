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

func (h *handler) listMangaComments(c echo.Context) error {
	ctx := c.Request().Context()
	viewerID, _ := auth.UserIDFromContext(c)

	source, err := models.ParseSource(c.Param("source"))
	if err != nil {
		return err
	}

	comments, err := h.libraryService.ListMangaComments(ctx, source, c.Param("id"), viewerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"comments": comments}))
}

func (h *handler) addMangaComment(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	source, err := models.ParseSource(c.Param("source"))
	if err != nil {
		return err
	}

	params := AddMangaCommentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	comment, err := h.libraryService.AddMangaComment(ctx, userID, source, c.Param("id"), MangaAttributes{
		Title:       params.Title,
		Description: params.Description,
		CoverURL:    params.CoverURL,
	}, params.Content, params.ParentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, comment))
}

func (h *handler) listChapterComments(c echo.Context) error {
	ctx := c.Request().Context()
	viewerID, _ := auth.UserIDFromContext(c)

	comments, err := h.libraryService.ListChapterComments(ctx, c.Param("chapterId"), viewerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"comments": comments}))
}

func (h *handler) countChapterComments(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := h.libraryService.CountChapterComments(ctx, c.Param("chapterId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"count": count}))
}

func (h *handler) addChapterComment(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := AddChapterCommentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	comment, err := h.libraryService.AddChapterComment(ctx, userID, c.Param("chapterId"), params.ChapterTitle, params.ChapterNumber, params.Content, params.ParentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, comment))
}

func (h *handler) listReplies(c echo.Context) error {
	ctx := c.Request().Context()
	viewerID, _ := auth.UserIDFromContext(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Comment")
	}

	replies, err := h.libraryService.ListReplies(ctx, id, viewerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"replies": replies}))
}

func (h *handler) updateComment(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Comment")
	}

	params := UpdateCommentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	comment, err := h.libraryService.UpdateComment(ctx, userID, id, params.Content)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, comment))
}

func (h *handler) deleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Comment")
	}

	if err := h.libraryService.DeleteComment(ctx, userID, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) likeComment(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Comment")
	}

	if err := h.libraryService.LikeComment(ctx, userID, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) unlikeComment(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Comment")
	}

	if err := h.libraryService.UnlikeComment(ctx, userID, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
