package lermanga

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/mangaden/mangaden/pkg/config"
	"github.com/mangaden/mangaden/pkg/imageproxy"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// chapterNumberRE extracts the chapter number from a chapter detail URL. The
// scraped site has no stable chapter ids, so the number embedded in the URL is
// the closest thing to one. This is a known fragility: it breaks if the
// upstream URL convention ever changes, and the fallback is the chapter title.
var chapterNumberRE = regexp.MustCompile(`capitulo-(\d+(?:\.\d+)?)`)

// Client talks to the scraping backend for the second content site. A manga's
// slug is its permanent identifier; there are no numeric ids. Listing
// operations degrade to empty results on failure; detail and chapter fetches
// propagate, since there is no empty substitute for a manga that doesn't
// exist.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// FilterOptions narrows a genre-filtered listing. Genres is a comma-separated
// list of genre slugs.
type FilterOptions struct {
	Genres string
	Status string
	Order  string
	Page   int
}

// NewClient creates a LerManga client from the config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.LerMangaBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
	}
}

// Search returns mangas matching the text query, or an empty list when the
// backend is unavailable.
func (c *Client) Search(ctx context.Context, query string) []*models.CatalogManga {
	params := url.Values{}
	params.Set("q", query)

	results := []searchResult{}
	if err := c.getJSON(ctx, "/search", params, &results); err != nil {
		logger.FromContext(ctx).Err(err).Warn("lermanga search failed")
		return []*models.CatalogManga{}
	}
	return mapSearchResults(results)
}

// Filter returns mangas matching the genre filter, or an empty list when the
// backend is unavailable.
func (c *Client) Filter(ctx context.Context, opts FilterOptions) []*models.CatalogManga {
	params := url.Values{}
	if opts.Genres != "" {
		params.Set("genres", opts.Genres)
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Order != "" {
		params.Set("order", opts.Order)
	}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}

	results := []searchResult{}
	if err := c.getJSON(ctx, "/filter", params, &results); err != nil {
		logger.FromContext(ctx).Err(err).Warn("lermanga filter failed")
		return []*models.CatalogManga{}
	}
	return mapSearchResults(results)
}

// Genres returns the available genre filters, or an empty list when the
// backend is unavailable.
func (c *Client) Genres(ctx context.Context) []*models.Genre {
	genres := []*models.Genre{}
	if err := c.getJSON(ctx, "/genres", nil, &genres); err != nil {
		logger.FromContext(ctx).Err(err).Warn("lermanga genres failed")
		return []*models.Genre{}
	}
	return genres
}

// MangaBySlug returns a single manga's details.
func (c *Client) MangaBySlug(ctx context.Context, slug string) (*models.CatalogManga, error) {
	details, err := c.fetchDetails(ctx, slug)
	if err != nil {
		return nil, err
	}
	return mapDetails(details), nil
}

// Chapters returns the manga's chapters. The backend embeds chapters in the
// details response rather than exposing them as independent entities, so this
// is a details fetch plus id synthesis per chapter.
func (c *Client) Chapters(ctx context.Context, slug string) ([]*models.CatalogChapter, error) {
	details, err := c.fetchDetails(ctx, slug)
	if err != nil {
		return nil, err
	}

	chapters := make([]*models.CatalogChapter, 0, len(details.Chapters))
	for _, ch := range details.Chapters {
		chapters = append(chapters, mapChapter(ch, slug))
	}
	return chapters, nil
}

// ChapterPages returns the ordered page image URLs for a chapter. The chapter
// id alone is not globally unique, so the parent manga's slug is required.
// Every page URL is proxied.
func (c *Client) ChapterPages(ctx context.Context, slug, chapterID string) ([]string, error) {
	details := chapterDetails{}
	path := "/manga/" + url.PathEscape(slug) + "/chapter/" + url.PathEscape(chapterID)
	if err := c.getJSON(ctx, path, nil, &details); err != nil {
		return nil, err
	}

	pages := make([]string, 0, len(details.Images))
	for _, raw := range details.Images {
		pages = append(pages, imageproxy.ProxyURL(models.SourceLerManga, raw))
	}
	return pages, nil
}

func (c *Client) fetchDetails(ctx context.Context, slug string) (*mangaDetails, error) {
	details := mangaDetails{}
	if err := c.getJSON(ctx, "/manga/"+url.PathEscape(slug), nil, &details); err != nil {
		return nil, err
	}
	if details.Slug == "" {
		details.Slug = slug
	}
	return &details, nil
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

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("lermanga returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(bufio.NewReader(resp.Body)).Decode(out); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func mapSearchResults(results []searchResult) []*models.CatalogManga {
	mangas := make([]*models.CatalogManga, 0, len(results))
	for _, r := range results {
		mangas = append(mangas, &models.CatalogManga{
			Source:   models.SourceLerManga,
			ID:       r.Slug,
			Title:    r.Title,
			Rating:   r.Rating,
			CoverURL: r.CoverImage,
			URL:      r.URL,
		})
	}
	return mangas
}

func mapDetails(d *mangaDetails) *models.CatalogManga {
	return &models.CatalogManga{
		Source:      models.SourceLerManga,
		ID:          d.Slug,
		Title:       d.Title,
		Author:      d.Author,
		Description: d.Summary,
		Genres:      d.Genres,
		Status:      d.Status,
		Rating:      d.Rating,
		CoverURL:    d.CoverImage,
		URL:         d.URL,
	}
}

// mapChapter synthesizes a chapter id from the chapter's detail URL, falling
// back to the title when the URL doesn't match the expected convention. The
// synthesized id is stable across fetches of the same upstream data, but only
// unique within the parent manga, so the manga slug travels with it.
func mapChapter(ch rawChapter, slug string) *models.CatalogChapter {
	number := ch.Number
	if number == "" && ch.URL != "" {
		if match := chapterNumberRE.FindStringSubmatch(ch.URL); match != nil {
			number = match[1]
		}
	}

	id := number
	if id == "" {
		id = ch.Title
	}
	if number == "" {
		number = "N/A"
	}

	return &models.CatalogChapter{
		ID:        id,
		Number:    number,
		Title:     ch.Title,
		Date:      ch.ReleaseDate,
		MangaSlug: slug,
		URL:       ch.URL,
	}
}
