package mangadex

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/mangaden/mangaden/pkg/config"
	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
)

const (
	listLimit = 20
	feedLimit = 500
	userAgent = "mangaden"
)

// Client talks to the MangaDex catalog API. Every listing is constrained to
// the configured chapter language and to the safe and suggestive content
// ratings; the two adult ratings are never requested.
type Client struct {
	baseURL      string
	coverBaseURL string
	language     string
	httpClient   *http.Client
}

// FilterOptions narrows a tag-filtered listing.
type FilterOptions struct {
	IncludedTags []string
	ExcludedTags []string
}

// NewClient creates a MangaDex client from the config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:      cfg.MangaDexBaseURL,
		coverBaseURL: cfg.MangaDexCoverBaseURL,
		language:     cfg.ChapterLanguage,
		httpClient: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
	}
}

// Popular returns the mangas with the most recent chapter uploads.
func (c *Client) Popular(ctx context.Context) ([]*models.CatalogManga, error) {
	params := c.listParams()
	params.Set("order[latestUploadedChapter]", "desc")

	resp := mangaListResponse{}
	if err := c.getJSON(ctx, "/manga", params, &resp); err != nil {
		return nil, err
	}
	return c.mapMangaList(resp.Data), nil
}

// Search returns mangas matching the text query.
func (c *Client) Search(ctx context.Context, query string) ([]*models.CatalogManga, error) {
	params := c.listParams()
	params.Set("title", query)

	resp := mangaListResponse{}
	if err := c.getJSON(ctx, "/manga", params, &resp); err != nil {
		return nil, err
	}
	return c.mapMangaList(resp.Data), nil
}

// FilterByTags returns mangas matching the tag filter.
func (c *Client) FilterByTags(ctx context.Context, opts FilterOptions) ([]*models.CatalogManga, error) {
	params := c.listParams()
	params.Set("order[latestUploadedChapter]", "desc")
	for _, id := range opts.IncludedTags {
		params.Add("includedTags[]", id)
	}
	for _, id := range opts.ExcludedTags {
		params.Add("excludedTags[]", id)
	}

	resp := mangaListResponse{}
	if err := c.getJSON(ctx, "/manga", params, &resp); err != nil {
		return nil, err
	}
	return c.mapMangaList(resp.Data), nil
}

// MangaDetails returns a single manga by its upstream id.
func (c *Client) MangaDetails(ctx context.Context, id string) (*models.CatalogManga, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errcodes.NotFound("Manga")
	}

	params := url.Values{}
	params.Add("includes[]", "cover_art")
	params.Add("includes[]", "author")

	resp := mangaResponse{}
	if err := c.getJSON(ctx, "/manga/"+url.PathEscape(id), params, &resp); err != nil {
		return nil, err
	}
	return c.mapDetails(resp.Data), nil
}

// Chapters returns the manga's chapter feed in the configured language,
// newest chapter number first. The upstream order is trusted as-is.
func (c *Client) Chapters(ctx context.Context, mangaID string) ([]*models.CatalogChapter, error) {
	if _, err := uuid.Parse(mangaID); err != nil {
		return nil, errcodes.NotFound("Manga")
	}

	params := url.Values{}
	params.Add("translatedLanguage[]", c.language)
	params.Set("order[chapter]", "desc")
	params.Set("limit", strconv.Itoa(feedLimit))

	resp := feedResponse{}
	if err := c.getJSON(ctx, "/manga/"+url.PathEscape(mangaID)+"/feed", params, &resp); err != nil {
		return nil, err
	}

	chapters := make([]*models.CatalogChapter, 0, len(resp.Data))
	for _, ch := range resp.Data {
		chapters = append(chapters, mapChapter(ch))
	}
	return chapters, nil
}

// ChapterPages resolves the ordered page image URLs for a chapter. This is a
// two-step protocol: the at-home endpoint hands back a session-scoped base URL
// and content hash, and one URL per page filename is constructed from them.
// Every page URL is proxied.
func (c *Client) ChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	if _, err := uuid.Parse(chapterID); err != nil {
		return nil, errcodes.NotFound("Chapter")
	}

	resp := atHomeResponse{}
	if err := c.getJSON(ctx, "/at-home/server/"+url.PathEscape(chapterID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Result != "ok" {
		return nil, errors.Errorf("mangadex at-home result %q for chapter %s", resp.Result, chapterID)
	}

	pages := make([]string, 0, len(resp.Chapter.Data))
	for _, filename := range resp.Chapter.Data {
		pages = append(pages, proxyImage(resp.BaseURL+"/data/"+resp.Chapter.Hash+"/"+filename))
	}
	return pages, nil
}

// Tags returns the full tag taxonomy.
func (c *Client) Tags(ctx context.Context) ([]*models.Tag, error) {
	resp := tagListResponse{}
	if err := c.getJSON(ctx, "/manga/tag", nil, &resp); err != nil {
		return nil, err
	}

	tags := make([]*models.Tag, 0, len(resp.Data))
	for _, t := range resp.Data {
		tags = append(tags, &models.Tag{
			ID:    t.ID,
			Name:  preferredName(t.Attributes.Name),
			Group: t.Attributes.Group,
		})
	}
	return tags, nil
}

// listParams returns the query params shared by every listing endpoint.
func (c *Client) listParams() url.Values {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(listLimit))
	params.Add("includes[]", "cover_art")
	params.Add("includes[]", "author")
	params.Add("availableTranslatedLanguage[]", c.language)
	params.Add("contentRating[]", "safe")
	params.Add("contentRating[]", "suggestive")
	return params
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("User-Agent", userAgent)

	err = retry.Do(func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.WithStack(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := errors.Errorf("mangadex returned status %d for %s", resp.StatusCode, path)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return retry.Unrecoverable(err)
			}
			return err
		}

		if err := json.NewDecoder(bufio.NewReader(resp.Body)).Decode(out); err != nil {
			return retry.Unrecoverable(errors.WithStack(err))
		}
		return nil
	},
		retry.Delay(time.Second*3),
		retry.Attempts(3),
		retry.MaxJitter(time.Second*1),
		retry.LastErrorOnly(true),
	)
	return err
}
