package imageproxy

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/mangaden/mangaden/pkg/config"
	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
)

const browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// ProxyURL returns the app-relative URL that serves the given upstream image
// through the proxy for the given source. Upstream image hosts block hotlinked
// requests, so clients never receive a raw upstream URL.
func ProxyURL(source models.Source, upstreamURL string) string {
	return "/images/" + string(source) + "?url=" + url.QueryEscape(upstreamURL)
}

// UpstreamURL inverts ProxyURL, recovering the source and the upstream image
// URL from a proxied path.
func UpstreamURL(proxyPath string) (models.Source, string, error) {
	u, err := url.Parse(proxyPath)
	if err != nil {
		return "", "", errors.WithStack(err)
	}

	name := strings.TrimPrefix(u.Path, "/images/")
	source, err := models.ParseSource(name)
	if err != nil {
		return "", "", err
	}

	upstream := u.Query().Get("url")
	if upstream == "" {
		return "", "", errcodes.ValidationError(`"url" is required`)
	}
	return source, upstream, nil
}

// UpstreamRequest builds a GET request for an upstream image. Upstream image
// hosts reject requests without a browser user agent and a referer from their
// own site, so both are always set.
func UpstreamRequest(ctx context.Context, cfg *config.Config, source models.Source, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req.Header.Set("User-Agent", browserUserAgent)
	switch source {
	case models.SourceMangaDex:
		req.Header.Set("Referer", "https://mangadex.org/")
	case models.SourceLerManga:
		req.Header.Set("Referer", cfg.LerMangaBaseURL+"/")
	}
	return req, nil
}
