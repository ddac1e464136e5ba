package library

import (
	"context"
	"database/sql"
	"time"

	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

const continueReadingLimit = 10

// Service maintains canonical manga rows and all user-relative state. Callers
// identify mangas by (source, source id); the surrogate row id only exists
// after canonicalization.
type Service struct {
	db *bun.DB
}

// MangaAttributes are the display attributes captured when a manga is
// canonicalized. They may legitimately change on re-fetch.
type MangaAttributes struct {
	Title       string
	Description string
	CoverURL    string
}

// ChapterRef identifies the chapter a user stopped at.
type ChapterRef struct {
	ID     string
	Number string
}

// NewService creates a new library service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// UpsertManga creates or updates the canonical row for (source, source id).
// The conflict target is the source-specific unique column, so calling this
// twice with the same key never produces a second row; non-key attributes are
// refreshed instead. Every user-relative write goes through here first so the
// row it references is guaranteed to exist.
func (s *Service) UpsertManga(ctx context.Context, source models.Source, sourceID string, attrs MangaAttributes) (*models.Manga, error) {
	if sourceID == "" {
		return nil, errcodes.ValidationError(`"id" is required`)
	}

	now := time.Now()
	manga := &models.Manga{
		Source:      source,
		Title:       attrs.Title,
		Description: attrs.Description,
		CoverURL:    attrs.CoverURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var conflictColumn string
	switch source {
	case models.SourceMangaDex:
		manga.MangaDexID = &sourceID
		conflictColumn = "mangadex_id"
	case models.SourceLerManga:
		manga.LerMangaSlug = &sourceID
		conflictColumn = "lermanga_slug"
	default:
		return nil, errcodes.ValidationError("a source discriminator is required")
	}

	_, err := s.db.NewInsert().
		Model(manga).
		On("CONFLICT ("+conflictColumn+") DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Set("title = EXCLUDED.title").
		Set("description = EXCLUDED.description").
		Set("cover_url = EXCLUDED.cover_url").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return manga, nil
}

// RetrieveManga returns the canonical row for (source, source id), or
// sql.ErrNoRows if the manga was never canonicalized.
func (s *Service) RetrieveManga(ctx context.Context, source models.Source, sourceID string) (*models.Manga, error) {
	manga := &models.Manga{}
	q := s.db.NewSelect().Model(manga)

	switch source {
	case models.SourceMangaDex:
		q = q.Where("m.mangadex_id = ?", sourceID)
	case models.SourceLerManga:
		q = q.Where("m.lermanga_slug = ?", sourceID)
	default:
		return nil, errcodes.ValidationError("a source discriminator is required")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return manga, nil
}

// AddFavorite records (user, manga) membership, canonicalizing the manga
// first. Adding twice is a no-op thanks to the uniqueness constraint.
func (s *Service) AddFavorite(ctx context.Context, userID string, source models.Source, sourceID string, attrs MangaAttributes) (*models.Favorite, error) {
	manga, err := s.UpsertManga(ctx, source, sourceID, attrs)
	if err != nil {
		return nil, err
	}

	favorite := &models.Favorite{
		UserID:    userID,
		MangaID:   manga.ID,
		CreatedAt: time.Now(),
	}
	_, err = s.db.NewInsert().
		Model(favorite).
		On("CONFLICT (user_id, manga_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	favorite.Manga = manga
	return favorite, nil
}

// RemoveFavorite deletes the (user, manga) membership row.
func (s *Service) RemoveFavorite(ctx context.Context, userID string, mangaID int) error {
	_, err := s.db.NewDelete().
		Model((*models.Favorite)(nil)).
		Where("user_id = ?", userID).
		Where("manga_id = ?", mangaID).
		Exec(ctx)
	return errors.WithStack(err)
}

// IsFavorite reports membership. A manga that was never canonicalized has
// never been favorited, so a missing canonical row is false, not an error.
func (s *Service) IsFavorite(ctx context.Context, userID string, source models.Source, sourceID string) (bool, error) {
	manga, err := s.RetrieveManga(ctx, source, sourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	exists, err := s.db.NewSelect().
		Model((*models.Favorite)(nil)).
		Where("user_id = ?", userID).
		Where("manga_id = ?", manga.ID).
		Exists(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return exists, nil
}

// ListFavorites returns the user's favorites, most recent first.
func (s *Service) ListFavorites(ctx context.Context, userID string) ([]*models.Favorite, error) {
	favorites := []*models.Favorite{}
	err := s.db.NewSelect().
		Model(&favorites).
		Relation("Manga").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return favorites, nil
}

// SaveProgress records the user's resume position for a manga and appends a
// history entry. The progress row is keyed on (user, manga) and the latest
// write wins; no history of previous positions is kept there.
func (s *Service) SaveProgress(ctx context.Context, userID string, source models.Source, sourceID string, attrs MangaAttributes, chapter ChapterRef, page int) (*models.ReadingProgress, error) {
	manga, err := s.UpsertManga(ctx, source, sourceID, attrs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	progress := &models.ReadingProgress{
		UserID:            userID,
		MangaID:           manga.ID,
		LastChapterID:     chapter.ID,
		LastChapterNumber: chapter.Number,
		LastPage:          page,
		LastReadAt:        now,
		CreatedAt:         now,
	}
	_, err = s.db.NewInsert().
		Model(progress).
		On("CONFLICT (user_id, manga_id) DO UPDATE").
		Set("last_chapter_id = EXCLUDED.last_chapter_id").
		Set("last_chapter_number = EXCLUDED.last_chapter_number").
		Set("last_page = EXCLUDED.last_page").
		Set("last_read_at = EXCLUDED.last_read_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	entry := &models.HistoryEntry{
		UserID:        userID,
		MangaID:       manga.ID,
		ChapterID:     chapter.ID,
		ChapterNumber: chapter.Number,
		ReadAt:        now,
	}
	_, err = s.db.NewInsert().Model(entry).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	progress.Manga = manga
	return progress, nil
}

// RetrieveProgress returns the user's resume position for (source, source
// id), or nil when there is none.
func (s *Service) RetrieveProgress(ctx context.Context, userID string, source models.Source, sourceID string) (*models.ReadingProgress, error) {
	manga, err := s.RetrieveManga(ctx, source, sourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	progress := &models.ReadingProgress{}
	err = s.db.NewSelect().
		Model(progress).
		Where("rp.user_id = ?", userID).
		Where("rp.manga_id = ?", manga.ID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}

	progress.Manga = manga
	return progress, nil
}

// ListContinueReading returns the user's most recent progress rows with their
// mangas resolved. A row whose manga lookup fails is dropped rather than
// surfaced; a dangling reference must never turn into a broken entry.
func (s *Service) ListContinueReading(ctx context.Context, userID string) ([]*models.ReadingProgress, error) {
	rows := []*models.ReadingProgress{}
	err := s.db.NewSelect().
		Model(&rows).
		Relation("Manga").
		Where("rp.user_id = ?", userID).
		Order("rp.last_read_at DESC").
		Limit(continueReadingLimit).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resolved := make([]*models.ReadingProgress, 0, len(rows))
	for _, row := range rows {
		if row.Manga == nil {
			logger.FromContext(ctx).Warn("dropping progress row with unresolvable manga", logger.Data{
				"progress_id": row.ID,
				"manga_id":    row.MangaID,
			})
			continue
		}
		resolved = append(resolved, row)
	}
	return resolved, nil
}

// ListHistory returns the user's reading history, most recent first.
func (s *Service) ListHistory(ctx context.Context, userID string, limit, offset int) ([]*models.HistoryEntry, error) {
	entries := []*models.HistoryEntry{}
	err := s.db.NewSelect().
		Model(&entries).
		Relation("Manga").
		Where("rh.user_id = ?", userID).
		Order("rh.read_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return entries, nil
}

// MangaStats are aggregate counts for one canonical manga.
type MangaStats struct {
	FavoriteCount int `json:"favorite_count"`
	CommentCount  int `json:"comment_count"`
}

// Stats returns aggregate counts for (source, source id). A manga with no
// canonical row has zero of everything.
func (s *Service) Stats(ctx context.Context, source models.Source, sourceID string) (*MangaStats, error) {
	manga, err := s.RetrieveManga(ctx, source, sourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &MangaStats{}, nil
		}
		return nil, err
	}

	stats := &MangaStats{}
	stats.FavoriteCount, err = s.db.NewSelect().
		Model((*models.Favorite)(nil)).
		Where("manga_id = ?", manga.ID).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats.CommentCount, err = s.db.NewSelect().
		Model((*models.Comment)(nil)).
		Where("manga_id = ?", manga.ID).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return stats, nil
}
