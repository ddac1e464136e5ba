package lermanga

// Raw shapes returned by the scraping backend. Field names drift from the
// catalog source (cover_image vs cover, summary vs description); the mapping
// into canonical shapes happens entirely inside this package.

type searchResult struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	CoverImage string   `json:"cover_image"`
	Rating     *float64 `json:"rating"`
	URL        string   `json:"url"`
}

type mangaDetails struct {
	Slug       string       `json:"slug"`
	Title      string       `json:"title"`
	CoverImage string       `json:"cover_image"`
	Summary    string       `json:"summary"`
	Author     string       `json:"author"`
	Status     string       `json:"status"`
	Rating     *float64     `json:"rating"`
	Genres     []string     `json:"genres"`
	URL        string       `json:"url"`
	Chapters   []rawChapter `json:"chapters"`
}

type rawChapter struct {
	Title       string `json:"title"`
	Number      string `json:"number"`
	URL         string `json:"url"`
	ReleaseDate string `json:"release_date"`
}

type chapterDetails struct {
	Images []string `json:"images"`
}
