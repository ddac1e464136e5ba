package mangadex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mangaden/mangaden/pkg/config"
	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mangaListJSON = `{
	"result": "ok",
	"data": [
		{
			"id": "manga-1",
			"attributes": {
				"title": {"en": "Solo Camping"},
				"description": {"en": "A camping story."},
				"status": "ongoing",
				"lastChapter": "42",
				"tags": [
					{"id": "tag-1", "attributes": {"name": {"en": "Slice of Life"}, "group": "genre"}}
				]
			},
			"relationships": [
				{"id": "cover-1", "type": "cover_art", "attributes": {"fileName": "cover.jpg"}},
				{"id": "author-1", "type": "author", "attributes": {"name": "Aya Takahashi"}}
			]
		},
		{
			"id": "manga-2",
			"attributes": {
				"title": {"ja": "無題"},
				"description": {"pt": "Uma história."},
				"status": "haitus-typo",
				"tags": []
			},
			"relationships": []
		}
	],
	"total": 2
}`

const feedJSON = `{
	"result": "ok",
	"data": [
		{"id": "ch-2", "attributes": {"chapter": "2", "title": "Dois", "publishAt": "2024-03-01T12:00:00+00:00", "pages": 20}},
		{"id": "ch-1", "attributes": {"chapter": "", "title": null, "publishAt": "", "pages": 0}}
	],
	"total": 2
}`

const atHomeJSON = `{
	"result": "ok",
	"baseUrl": "https://cdn.example.org",
	"chapter": {"hash": "abc123", "data": ["p1.jpg", "p2.jpg"]}
}`

const tagsJSON = `{
	"result": "ok",
	"data": [
		{"id": "tag-1", "attributes": {"name": {"en": "Action"}, "group": "genre"}},
		{"id": "tag-2", "attributes": {"name": {"ja": "アイソカイ"}, "group": "theme"}}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.NewForTest()
	cfg.MangaDexBaseURL = server.URL
	cfg.MangaDexCoverBaseURL = "https://uploads.mangadex.org"

	client := NewClient(cfg)
	client.httpClient = server.Client()
	return client
}

func TestPopular(t *testing.T) {
	t.Parallel()

	var query url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/manga", r.URL.Path)
		query = r.URL.Query()
		_, _ = w.Write([]byte(mangaListJSON))
	})

	mangas, err := client.Popular(context.Background())
	require.NoError(t, err)
	require.Len(t, mangas, 2)

	// Listing constraints: language, latest-upload order, and only the two
	// non-adult content ratings.
	assert.Equal(t, "20", query.Get("limit"))
	assert.Equal(t, "desc", query.Get("order[latestUploadedChapter]"))
	assert.Equal(t, []string{"pt-br"}, query["availableTranslatedLanguage[]"])
	assert.ElementsMatch(t, []string{"safe", "suggestive"}, query["contentRating[]"])
	assert.ElementsMatch(t, []string{"cover_art", "author"}, query["includes[]"])

	first := mangas[0]
	assert.Equal(t, models.SourceMangaDex, first.Source)
	assert.Equal(t, "manga-1", first.ID)
	assert.Equal(t, "Solo Camping", first.Title)
	assert.Equal(t, "Aya Takahashi", first.Author)
	assert.Equal(t, "A camping story.", first.Description)
	assert.Equal(t, []string{"Slice of Life"}, first.Genres)
	assert.Equal(t, "ongoing", first.Status)
	assert.Equal(t, "42", first.TotalChapters)
	assert.Equal(t,
		"/images/mangadex?url="+url.QueryEscape("https://uploads.mangadex.org/covers/manga-1/cover.jpg.256.jpg"),
		first.CoverURL)
	assert.Equal(t,
		"/images/mangadex?url="+url.QueryEscape("https://uploads.mangadex.org/covers/manga-1/cover.jpg.512.jpg"),
		first.HeroURL)

	// Fallbacks: first title in any language, second-language description,
	// unknown status and chapter count, empty cover without a cover_art
	// relationship.
	second := mangas[1]
	assert.Equal(t, "無題", second.Title)
	assert.Equal(t, "Unknown", second.Author)
	assert.Equal(t, "Uma história.", second.Description)
	assert.Equal(t, models.MangaStatusUnknown, second.Status)
	assert.Equal(t, "N/A", second.TotalChapters)
	assert.Empty(t, second.CoverURL)
}

func TestPopular_EmptyTitleFallsBackToSentinel(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"ok","data":[{"id":"m","attributes":{"title":{},"description":{}},"relationships":[]}]}`))
	})

	mangas, err := client.Popular(context.Background())
	require.NoError(t, err)
	require.Len(t, mangas, 1)
	assert.Equal(t, "Unknown Title", mangas[0].Title)
	assert.Equal(t, "Nenhuma sinopse disponível.", mangas[0].Description)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	var query url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(mangaListJSON))
	})

	mangas, err := client.Search(context.Background(), "camping")
	require.NoError(t, err)
	assert.Len(t, mangas, 2)
	assert.Equal(t, "camping", query.Get("title"))
	assert.ElementsMatch(t, []string{"safe", "suggestive"}, query["contentRating[]"])
}

func TestFilterByTags(t *testing.T) {
	t.Parallel()

	var query url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(mangaListJSON))
	})

	_, err := client.FilterByTags(context.Background(), FilterOptions{
		IncludedTags: []string{"tag-1"},
		ExcludedTags: []string{"tag-9"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-1"}, query["includedTags[]"])
	assert.Equal(t, []string{"tag-9"}, query["excludedTags[]"])
	assert.Equal(t, "desc", query.Get("order[latestUploadedChapter]"))
}

func TestMangaDetails(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/manga/3f2d7a1e-9c4b-4f8e-a6d2-1b5e8c0f7a93", r.URL.Path)
		_, _ = w.Write([]byte(`{"result":"ok","data":` + `{
			"id": "manga-1",
			"attributes": {
				"title": {"en": "Solo Camping"},
				"description": {"en": "A camping story."},
				"status": "completed",
				"lastChapter": "42",
				"tags": []
			},
			"relationships": [
				{"id": "cover-1", "type": "cover_art", "attributes": {"fileName": "cover.jpg"}}
			]
		}` + `}`))
	})

	manga, err := client.MangaDetails(context.Background(), "3f2d7a1e-9c4b-4f8e-a6d2-1b5e8c0f7a93")
	require.NoError(t, err)
	assert.Equal(t, "Solo Camping", manga.Title)
	assert.Equal(t, "completed", manga.Status)
	// Details use the larger cover rendition.
	assert.Contains(t, manga.CoverURL, url.QueryEscape("cover.jpg.512.jpg"))
}

func TestMangaDetails_NotFound(t *testing.T) {
	t.Parallel()

	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.MangaDetails(context.Background(), "0a1b2c3d-4e5f-4a6b-8c9d-0e1f2a3b4c5d")
	require.Error(t, err)
	// 4xx responses are terminal, not retried.
	assert.Equal(t, 1, requests)
}

func TestMangaDetails_MalformedID(t *testing.T) {
	t.Parallel()

	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	_, err := client.MangaDetails(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, errcodes.NotFound("Manga"))
	// Ids that cannot be MangaDex ids never reach the upstream.
	assert.Equal(t, 0, requests)
}

func TestChapters(t *testing.T) {
	t.Parallel()

	var query url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/manga/3f2d7a1e-9c4b-4f8e-a6d2-1b5e8c0f7a93/feed", r.URL.Path)
		query = r.URL.Query()
		_, _ = w.Write([]byte(feedJSON))
	})

	chapters, err := client.Chapters(context.Background(), "3f2d7a1e-9c4b-4f8e-a6d2-1b5e8c0f7a93")
	require.NoError(t, err)
	require.Len(t, chapters, 2)

	assert.Equal(t, []string{"pt-br"}, query["translatedLanguage[]"])
	assert.Equal(t, "desc", query.Get("order[chapter]"))
	assert.Equal(t, "500", query.Get("limit"))

	assert.Equal(t, "ch-2", chapters[0].ID)
	assert.Equal(t, "2", chapters[0].Number)
	assert.Equal(t, "Dois", chapters[0].Title)
	assert.Equal(t, "01/03/2024", chapters[0].Date)
	assert.Equal(t, 20, chapters[0].Pages)

	// Unknown number and missing publish date.
	assert.Equal(t, "N/A", chapters[1].Number)
	assert.Empty(t, chapters[1].Title)
	assert.Empty(t, chapters[1].Date)
}

func TestChapterPages(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/at-home/server/7e1a4c92-5b3d-4e6f-8a0c-2d9f6b1e4c58", r.URL.Path)
		_, _ = w.Write([]byte(atHomeJSON))
	})

	pages, err := client.ChapterPages(context.Background(), "7e1a4c92-5b3d-4e6f-8a0c-2d9f6b1e4c58")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t,
		"/images/mangadex?url="+url.QueryEscape("https://cdn.example.org/data/abc123/p1.jpg"),
		pages[0])
	assert.Equal(t,
		"/images/mangadex?url="+url.QueryEscape("https://cdn.example.org/data/abc123/p2.jpg"),
		pages[1])
}

func TestChapterPages_BadResult(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"error"}`))
	})

	_, err := client.ChapterPages(context.Background(), "7e1a4c92-5b3d-4e6f-8a0c-2d9f6b1e4c58")
	require.Error(t, err)
}

func TestTags(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/manga/tag", r.URL.Path)
		_, _ = w.Write([]byte(tagsJSON))
	})

	tags, err := client.Tags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, &models.Tag{ID: "tag-1", Name: "Action", Group: "genre"}, tags[0])
	// Non-English names fall back to the first available language.
	assert.Equal(t, "アイソカイ", tags[1].Name)
}
