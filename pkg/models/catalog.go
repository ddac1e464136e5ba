package models

// CatalogManga is the canonical manga shape produced by both source clients.
// The presentation layer never sees source-specific field names; the clients
// resolve all of that before a CatalogManga leaves them.
type CatalogManga struct {
	Source      Source   `json:"source"`
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	Description string   `json:"description,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Status      string   `json:"status,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`

	// TotalChapters is the upstream's last-chapter label, "N/A" when unknown.
	TotalChapters string `json:"total_chapters,omitempty"`

	// CoverURL and HeroURL are always proxied; raw upstream image URLs must
	// never reach a caller.
	CoverURL string `json:"cover"`
	HeroURL  string `json:"hero_image,omitempty"`

	// URL is the upstream reader page; only set for LerManga entries.
	URL string `json:"url,omitempty"`
}

// CatalogChapter is the canonical chapter shape. For MangaDex the ID is the
// upstream chapter id; for LerManga it is synthesized from the chapter URL
// (see the lermanga package) and is only unique within its parent manga.
type CatalogChapter struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Title  string `json:"title,omitempty"`
	Date   string `json:"date,omitempty"`
	Pages  int    `json:"pages,omitempty"`

	// MangaSlug carries the parent manga's slug for LerManga chapters since
	// their ids are not globally unique without it.
	MangaSlug string `json:"slug,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Tag is a MangaDex tag taxonomy entry.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// Genre is a LerManga genre filter entry.
type Genre struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
