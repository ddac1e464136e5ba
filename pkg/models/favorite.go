package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Favorite is boolean membership on (user, manga); at most one row per pair.
type Favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:f"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `bun:",notnull" json:"user_id"`
	MangaID   int       `bun:",notnull" json:"manga_id"`
	Manga     *Manga    `bun:"rel:belongs-to,join:manga_id=id" json:"manga,omitempty"`
}
