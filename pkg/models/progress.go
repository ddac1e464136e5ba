package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ReadingProgress is the resume position for (user, manga). At most one row
// exists per pair; saves are last-write-wins upserts with no history of
// previous positions.
type ReadingProgress struct {
	bun.BaseModel `bun:"table:reading_progress,alias:rp"`

	ID                int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UserID            string    `bun:",notnull" json:"user_id"`
	MangaID           int       `bun:",notnull" json:"manga_id"`
	Manga             *Manga    `bun:"rel:belongs-to,join:manga_id=id" json:"manga,omitempty"`
	LastChapterID     string    `bun:"last_chapter_id" json:"last_chapter_id"`
	LastChapterNumber string    `bun:"last_chapter_number" json:"last_chapter_number"`
	LastPage          int       `bun:"last_page" json:"last_page"`
	LastReadAt        time.Time `bun:"last_read_at" json:"last_read_at"`
}

// HistoryEntry is an append-only record of a chapter being read. Unlike
// ReadingProgress it is never overwritten.
type HistoryEntry struct {
	bun.BaseModel `bun:"table:reading_history,alias:rh"`

	ID            int       `bun:",pk,autoincrement" json:"id"`
	UserID        string    `bun:",notnull" json:"user_id"`
	MangaID       int       `bun:",notnull" json:"manga_id"`
	Manga         *Manga    `bun:"rel:belongs-to,join:manga_id=id" json:"manga,omitempty"`
	ChapterID     string    `bun:"chapter_id" json:"chapter_id"`
	ChapterNumber string    `bun:"chapter_number" json:"chapter_number"`
	ReadAt        time.Time `bun:"read_at" json:"read_at"`
}
