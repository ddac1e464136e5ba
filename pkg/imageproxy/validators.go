package imageproxy

// Query params for the image endpoint.
type ImageQuery struct {
	URL string `query:"url" json:"url" validate:"required"`
}
