package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Comment is attached to either a canonical manga row or an upstream chapter
// id, never both. Chapter comments denormalize the chapter title and number
// so threads render without a round trip to the upstream source.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID            int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        string    `bun:",notnull" json:"user_id"`
	Profile       *Profile  `bun:"rel:belongs-to,join:user_id=id" json:"profile,omitempty"`
	MangaID       *int      `json:"manga_id,omitempty"`
	Manga         *Manga    `bun:"rel:belongs-to,join:manga_id=id" json:"manga,omitempty"`
	ChapterID     *string   `bun:"chapter_id" json:"chapter_id,omitempty"`
	ChapterTitle  *string   `bun:"chapter_title" json:"chapter_title,omitempty"`
	ChapterNumber *string   `bun:"chapter_number" json:"chapter_number,omitempty"`
	ParentID      *int      `bun:"parent_id" json:"parent_id,omitempty"`
	Content       string    `bun:",notnull" json:"content"`
	Edited        bool      `bun:",notnull,default:false" json:"edited"`

	LikeCount int  `bun:"like_count,scanonly" json:"like_count"`
	Liked     bool `bun:"liked,scanonly" json:"liked"`
}

// CommentLike records a single like per (user, comment).
type CommentLike struct {
	bun.BaseModel `bun:"table:comment_likes,alias:cl"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `bun:",notnull" json:"user_id"`
	CommentID int       `bun:",notnull" json:"comment_id"`
}
