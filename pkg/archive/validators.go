package archive

// DownloadQuery represents the query parameters for a chapter download. The
// slug is required for the scraped source, whose chapter ids are only unique
// within a manga.
type DownloadQuery struct {
	Slug string `query:"slug" mod:"trim" validate:"max=200"`
}
