package imageproxy

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mangaden/mangaden/pkg/config"
	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	cfg    *config.Config
	client *http.Client
}

func (h *handler) image(c echo.Context) error {
	source, err := models.ParseSource(c.Param("source"))
	if err != nil {
		return err
	}

	params := ImageQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	target, err := url.Parse(params.URL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		return errcodes.ValidationError(`"url" must be an absolute http or https URL`)
	}
	if !h.allowedHost(source, target.Hostname()) {
		return errcodes.ValidationError(`"url" points at a host that isn't allowed for this source`)
	}

	proxyReq, err := UpstreamRequest(c.Request().Context(), h.cfg, source, target.String())
	if err != nil {
		return errors.WithStack(err)
	}

	resp, err := h.client.Do(proxyReq)
	if err != nil {
		return errcodes.UpstreamUnavailable(string(source))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return errcodes.NotFound("Image")
		}
		return errcodes.UpstreamUnavailable(string(source))
	}

	if ctype := resp.Header.Get("Content-Type"); ctype != "" {
		c.Response().Header().Set("Content-Type", ctype)
	}
	if length := resp.Header.Get("Content-Length"); length != "" {
		c.Response().Header().Set("Content-Length", length)
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")

	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response().Writer, resp.Body)
	return errors.WithStack(err)
}

// allowedHost reports whether the host belongs to the source's configured
// image domains or its base host. Chapter pages are served from hosts the
// upstream picks per request, so the domain lists cover those too.
func (h *handler) allowedHost(source models.Source, host string) bool {
	var base string
	var domains []string
	switch source {
	case models.SourceMangaDex:
		base = h.cfg.MangaDexCoverBaseURL
		domains = h.cfg.MangaDexImageDomains
	case models.SourceLerManga:
		base = h.cfg.LerMangaBaseURL
		domains = h.cfg.LerMangaImageDomains
	default:
		return false
	}

	if baseURL, err := url.Parse(base); err == nil && host == baseURL.Hostname() {
		return true
	}

	for _, domain := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
