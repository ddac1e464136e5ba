package library

// Query params and payloads for library endpoints. Every manga reference is
// the composite (source, id); an id alone is rejected.

type MangaRefQuery struct {
	Source string `query:"source" json:"source" validate:"required,source"`
	ID     string `query:"id" json:"id" validate:"required,max=200"`
}

type AddFavoritePayload struct {
	Source      string `json:"source" validate:"required,source"`
	ID          string `json:"id" validate:"required,max=200"`
	Title       string `json:"title" mod:"trim" validate:"required,max=500"`
	Description string `json:"description,omitempty" validate:"max=5000"`
	CoverURL    string `json:"cover_url,omitempty" validate:"max=1000"`
}

type SaveProgressPayload struct {
	Source        string `json:"source" validate:"required,source"`
	ID            string `json:"id" validate:"required,max=200"`
	Title         string `json:"title" mod:"trim" validate:"required,max=500"`
	Description   string `json:"description,omitempty" validate:"max=5000"`
	CoverURL      string `json:"cover_url,omitempty" validate:"max=1000"`
	ChapterID     string `json:"chapter_id" validate:"required,max=200"`
	ChapterNumber string `json:"chapter_number" validate:"required,max=50"`
	Page          int    `json:"page" validate:"min=1"`
}

type ListHistoryQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type AddMangaCommentPayload struct {
	Content     string `json:"content" mod:"trim" validate:"required,max=1000"`
	ParentID    *int   `json:"parent_id,omitempty" validate:"omitempty,min=1"`
	Title       string `json:"title" mod:"trim" validate:"required,max=500"`
	Description string `json:"description,omitempty" validate:"max=5000"`
	CoverURL    string `json:"cover_url,omitempty" validate:"max=1000"`
}

type AddChapterCommentPayload struct {
	Content       string  `json:"content" mod:"trim" validate:"required,max=1000"`
	ParentID      *int    `json:"parent_id,omitempty" validate:"omitempty,min=1"`
	ChapterTitle  *string `json:"chapter_title,omitempty" validate:"omitempty,max=500"`
	ChapterNumber *string `json:"chapter_number,omitempty" validate:"omitempty,max=50"`
}

type UpdateCommentPayload struct {
	Content string `json:"content" mod:"trim" validate:"required,max=1000"`
}
