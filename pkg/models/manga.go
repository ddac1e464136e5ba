package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Manga is the canonical persisted record for one work from one source.
// Exactly one row exists per (source, source id) pair; the upsert conflict
// target is mangadex_id for MangaDex rows and lermanga_slug for LerManga
// rows. Two sources are never conflated even when titles match.
type Manga struct {
	bun.BaseModel `bun:"table:mangas,alias:m"`

	ID           int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Source       Source    `bun:",notnull" json:"source"`
	MangaDexID   *string   `bun:"mangadex_id" json:"mangadex_id,omitempty"`
	LerMangaSlug *string   `bun:"lermanga_slug" json:"lermanga_slug,omitempty"`
	Title        string    `bun:",notnull" json:"title"`
	Description  string    `json:"description,omitempty"`
	CoverURL     string    `bun:"cover_url" json:"cover_url,omitempty"`
}

// SourceID returns the source-specific identifier for this row.
func (m *Manga) SourceID() string {
	switch m.Source {
	case SourceMangaDex:
		if m.MangaDexID != nil {
			return *m.MangaDexID
		}
	case SourceLerManga:
		if m.LerMangaSlug != nil {
			return *m.LerMangaSlug
		}
	}
	return ""
}
