package catalog

// Query params for catalog endpoints.
type SearchQuery struct {
	Query string `query:"q" json:"q" mod:"trim" validate:"required,max=200"`
}

type TagFilterQuery struct {
	IncludedTags []string `query:"included_tags" json:"included_tags,omitempty" validate:"max=20"`
	ExcludedTags []string `query:"excluded_tags" json:"excluded_tags,omitempty" validate:"max=20"`
}

type GenreFilterQuery struct {
	Genres string `query:"genres" json:"genres,omitempty" validate:"max=500"`
	Status string `query:"status" json:"status,omitempty" validate:"max=50"`
	Order  string `query:"order" json:"order,omitempty" validate:"max=50"`
	Page   int    `query:"page" json:"page,omitempty" validate:"min=0"`
}

type ChapterPagesQuery struct {
	// Slug is the parent manga's slug; required for lermanga chapters since
	// their ids are not globally unique.
	Slug string `query:"slug" json:"slug,omitempty" validate:"max=200"`
}
