package mangadex

// Raw upstream response shapes. Nothing outside this package sees these;
// mapping.go converts them into the canonical catalog shapes.

type mangaListResponse struct {
	Result string  `json:"result"`
	Data   []manga `json:"data"`
	Total  int     `json:"total"`
}

type mangaResponse struct {
	Result string `json:"result"`
	Data   manga  `json:"data"`
}

type manga struct {
	ID            string          `json:"id"`
	Attributes    mangaAttributes `json:"attributes"`
	Relationships []relationship  `json:"relationships"`
}

type mangaAttributes struct {
	Title       map[string]string `json:"title"`
	Description map[string]string `json:"description"`
	Status      string            `json:"status"`
	LastChapter string            `json:"lastChapter"`
	Tags        []tag             `json:"tags"`
}

type relationship struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Attributes relationshipAttributes `json:"attributes"`
}

type relationshipAttributes struct {
	// FileName is set on cover_art relationships.
	FileName string `json:"fileName"`
	// Name is set on author relationships.
	Name string `json:"name"`
}

type tag struct {
	ID         string        `json:"id"`
	Attributes tagAttributes `json:"attributes"`
}

type tagAttributes struct {
	Name  map[string]string `json:"name"`
	Group string            `json:"group"`
}

type tagListResponse struct {
	Result string `json:"result"`
	Data   []tag  `json:"data"`
}

type feedResponse struct {
	Result string        `json:"result"`
	Data   []feedChapter `json:"data"`
	Total  int           `json:"total"`
}

type feedChapter struct {
	ID         string            `json:"id"`
	Attributes chapterAttributes `json:"attributes"`
}

type chapterAttributes struct {
	Chapter   string  `json:"chapter"`
	Title     *string `json:"title"`
	PublishAt string  `json:"publishAt"`
	Pages     int     `json:"pages"`
}

type atHomeResponse struct {
	Result  string      `json:"result"`
	BaseURL string      `json:"baseUrl"`
	Chapter atHomeFiles `json:"chapter"`
}

type atHomeFiles struct {
	Hash string   `json:"hash"`
	Data []string `json:"data"`
}
