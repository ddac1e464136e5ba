package catalog

import (
	"context"
	"sync"

	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/lermanga"
	"github.com/mangaden/mangaden/pkg/mangadex"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	featuredCount = 10
)

// MangaDexClient is the catalog API side of the adapter.
type MangaDexClient interface {
	Popular(ctx context.Context) ([]*models.CatalogManga, error)
	Search(ctx context.Context, query string) ([]*models.CatalogManga, error)
	FilterByTags(ctx context.Context, opts mangadex.FilterOptions) ([]*models.CatalogManga, error)
	MangaDetails(ctx context.Context, id string) (*models.CatalogManga, error)
	Chapters(ctx context.Context, mangaID string) ([]*models.CatalogChapter, error)
	ChapterPages(ctx context.Context, chapterID string) ([]string, error)
	Tags(ctx context.Context) ([]*models.Tag, error)
}

// LerMangaClient is the scrape-backed side of the adapter.
type LerMangaClient interface {
	Search(ctx context.Context, query string) []*models.CatalogManga
	Filter(ctx context.Context, opts lermanga.FilterOptions) []*models.CatalogManga
	Genres(ctx context.Context) []*models.Genre
	MangaBySlug(ctx context.Context, slug string) (*models.CatalogManga, error)
	Chapters(ctx context.Context, slug string) ([]*models.CatalogChapter, error)
	ChapterPages(ctx context.Context, slug, chapterID string) ([]string, error)
}

// Service is the single entry point for catalog data. It dispatches each
// operation to one or both source clients and exposes one consistent shape
// regardless of origin. Nothing else in the system may call a source client
// directly.
type Service struct {
	mangadex MangaDexClient
	lermanga LerMangaClient
}

// HomeSections is the popular list partitioned for the home layout: one hero,
// ten featured, nine trending. Short lists degrade by leaving the later
// sections empty.
type HomeSections struct {
	Hero     *models.CatalogManga   `json:"hero,omitempty"`
	Featured []*models.CatalogManga `json:"featured"`
	Trending []*models.CatalogManga `json:"trending"`
}

// NewService creates a new catalog service.
func NewService(mangadexClient MangaDexClient, lermangaClient LerMangaClient) *Service {
	return &Service{
		mangadex: mangadexClient,
		lermanga: lermangaClient,
	}
}

// Popular returns the popular list from the catalog source.
func (s *Service) Popular(ctx context.Context) ([]*models.CatalogManga, error) {
	mangas, err := s.mangadex.Popular(ctx)
	if err != nil {
		return nil, upstreamError(ctx, err, models.SourceMangaDex, "mangadex popular failed")
	}
	return mangas, nil
}

// upstreamError maps a source client failure onto the error taxonomy. A
// client error that already carries a code (a not-found id, say) passes
// through untouched; anything else is an upstream outage.
func upstreamError(ctx context.Context, err error, source models.Source, msg string) error {
	coded := &errcodes.Error{}
	if errors.As(err, &coded) {
		return err
	}
	logger.FromContext(ctx).Err(err).Error(msg)
	return errcodes.UpstreamUnavailable(string(source))
}

// Home returns the popular list partitioned into home page sections.
func (s *Service) Home(ctx context.Context) (*HomeSections, error) {
	mangas, err := s.Popular(ctx)
	if err != nil {
		return nil, err
	}
	return partitionHome(mangas), nil
}

// Search queries both sources concurrently and concatenates the catalog
// source's results before the scraped source's. Each side is isolated: a
// failure in one contributes nothing instead of failing the whole search, so
// one upstream outage never blocks the other's results.
func (s *Service) Search(ctx context.Context, query string) []*models.CatalogManga {
	var wg sync.WaitGroup
	var mangadexResults, lermangaResults []*models.CatalogManga

	wg.Add(2)
	go func() {
		defer wg.Done()
		results, err := s.mangadex.Search(ctx, query)
		if err != nil {
			logger.FromContext(ctx).Err(err).Warn("mangadex search failed")
			return
		}
		mangadexResults = results
	}()
	go func() {
		defer wg.Done()
		lermangaResults = s.lermanga.Search(ctx, query)
	}()
	wg.Wait()

	combined := make([]*models.CatalogManga, 0, len(mangadexResults)+len(lermangaResults))
	combined = append(combined, mangadexResults...)
	combined = append(combined, lermangaResults...)
	return combined
}

// FilterByTags filters the catalog source by tag ids.
func (s *Service) FilterByTags(ctx context.Context, opts mangadex.FilterOptions) ([]*models.CatalogManga, error) {
	mangas, err := s.mangadex.FilterByTags(ctx, opts)
	if err != nil {
		return nil, upstreamError(ctx, err, models.SourceMangaDex, "mangadex tag filter failed")
	}
	return mangas, nil
}

// FilterByGenres filters the scraped source by genre slugs.
func (s *Service) FilterByGenres(ctx context.Context, opts lermanga.FilterOptions) []*models.CatalogManga {
	return s.lermanga.Filter(ctx, opts)
}

// Tags returns the catalog source's tag taxonomy.
func (s *Service) Tags(ctx context.Context) ([]*models.Tag, error) {
	tags, err := s.mangadex.Tags(ctx)
	if err != nil {
		return nil, upstreamError(ctx, err, models.SourceMangaDex, "mangadex tags failed")
	}
	return tags, nil
}

// Genres returns the scraped source's genre list.
func (s *Service) Genres(ctx context.Context) []*models.Genre {
	return s.lermanga.Genres(ctx)
}

// MangaDetails routes a details lookup by the caller-supplied source
// discriminator. Ids are not self-describing, so the caller must always carry
// the source forward; there is no probing or guessing.
func (s *Service) MangaDetails(ctx context.Context, source models.Source, id string) (*models.CatalogManga, error) {
	switch source {
	case models.SourceLerManga:
		manga, err := s.lermanga.MangaBySlug(ctx, id)
		if err != nil {
			return nil, upstreamError(ctx, err, models.SourceLerManga, "lermanga details failed")
		}
		return manga, nil
	case models.SourceMangaDex:
		manga, err := s.mangadex.MangaDetails(ctx, id)
		if err != nil {
			return nil, upstreamError(ctx, err, models.SourceMangaDex, "mangadex details failed")
		}
		return manga, nil
	}
	return nil, errcodes.ValidationError("a source discriminator is required")
}

// Chapters routes a chapter listing by source discriminator.
func (s *Service) Chapters(ctx context.Context, source models.Source, id string) ([]*models.CatalogChapter, error) {
	switch source {
	case models.SourceLerManga:
		chapters, err := s.lermanga.Chapters(ctx, id)
		if err != nil {
			return nil, upstreamError(ctx, err, models.SourceLerManga, "lermanga chapters failed")
		}
		return chapters, nil
	case models.SourceMangaDex:
		chapters, err := s.mangadex.Chapters(ctx, id)
		if err != nil {
			return nil, upstreamError(ctx, err, models.SourceMangaDex, "mangadex chapters failed")
		}
		return chapters, nil
	}
	return nil, errcodes.ValidationError("a source discriminator is required")
}

// ChapterPages routes a page-list lookup by source discriminator. The scraped
// source's chapter ids are only unique within a manga, so it additionally
// requires the parent manga's slug.
func (s *Service) ChapterPages(ctx context.Context, source models.Source, chapterID, mangaSlug string) ([]string, error) {
	switch source {
	case models.SourceLerManga:
		if mangaSlug == "" {
			return nil, errcodes.ValidationError(`"slug" is required for lermanga chapters`)
		}
		pages, err := s.lermanga.ChapterPages(ctx, mangaSlug, chapterID)
		if err != nil {
			return nil, upstreamError(ctx, err, models.SourceLerManga, "lermanga pages failed")
		}
		return pages, nil
	case models.SourceMangaDex:
		pages, err := s.mangadex.ChapterPages(ctx, chapterID)
		if err != nil {
			return nil, upstreamError(ctx, err, models.SourceMangaDex, "mangadex pages failed")
		}
		return pages, nil
	}
	return nil, errcodes.ValidationError("a source discriminator is required")
}

// partitionHome splits a popular list into the fixed 1/10/9 home layout.
func partitionHome(mangas []*models.CatalogManga) *HomeSections {
	sections := &HomeSections{
		Featured: []*models.CatalogManga{},
		Trending: []*models.CatalogManga{},
	}
	if len(mangas) == 0 {
		return sections
	}

	sections.Hero = mangas[0]
	rest := mangas[1:]
	if len(rest) > featuredCount {
		sections.Featured = rest[:featuredCount]
		sections.Trending = rest[featuredCount:]
	} else {
		sections.Featured = rest
	}
	return sections
}
