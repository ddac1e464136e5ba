package profiles

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mangaden/mangaden/pkg/auth"
	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/pkg/errors"
)

type handler struct {
	profileService *Service
}

// me returns the caller's own profile, creating it on first sight.
func (h *handler) me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}
	username, _ := auth.UsernameFromContext(c)

	profile, err := h.profileService.Ensure(ctx, userID, username)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, profile))
}

func (h *handler) updateMe(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}
	username, _ := auth.UsernameFromContext(c)

	params := UpdateProfilePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	profile, err := h.profileService.Ensure(ctx, userID, username)
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateOptions{Columns: []string{}}

	if params.DisplayName != nil {
		if *params.DisplayName == "" {
			profile.DisplayName = nil
		} else {
			profile.DisplayName = params.DisplayName
		}
		opts.Columns = append(opts.Columns, "display_name")
	}
	if params.AvatarURL != nil {
		if *params.AvatarURL == "" {
			profile.AvatarURL = nil
		} else {
			profile.AvatarURL = params.AvatarURL
		}
		opts.Columns = append(opts.Columns, "avatar_url")
	}

	if err := h.profileService.Update(ctx, profile, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, profile))
}

func (h *handler) retrieveByUsername(c echo.Context) error {
	ctx := c.Request().Context()

	profile, err := h.profileService.RetrieveByUsername(ctx, c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, profile))
}
