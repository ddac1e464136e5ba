package lermanga

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mangaden/mangaden/pkg/config"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailsJSON = `{
	"slug": "one-piece",
	"title": "One Piece",
	"cover_image": "https://img.lermanga.org/one-piece.jpg",
	"summary": "Um garoto de borracha.",
	"author": "Eiichiro Oda",
	"status": "ongoing",
	"rating": 9.2,
	"genres": ["Ação", "Aventura"],
	"url": "https://lermanga.org/mangas/one-piece",
	"chapters": [
		{"title": "Capítulo 1100.5", "url": "https://lermanga.org/capitulos/one-piece-capitulo-1100.5", "release_date": "01/03/2024"},
		{"title": "Especial de Natal", "url": "https://lermanga.org/capitulos/one-piece-especial", "release_date": ""}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.NewForTest()
	cfg.LerMangaBaseURL = server.URL

	client := NewClient(cfg)
	client.httpClient = server.Client()
	return client
}

func TestSearch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "one piece", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[
			{"slug": "one-piece", "title": "One Piece", "cover_image": "https://img.lermanga.org/op.jpg", "rating": 9.2, "url": "https://lermanga.org/mangas/one-piece"}
		]`))
	})

	mangas := client.Search(context.Background(), "one piece")
	require.Len(t, mangas, 1)
	assert.Equal(t, models.SourceLerManga, mangas[0].Source)
	// The slug is the identity; there is no numeric id.
	assert.Equal(t, "one-piece", mangas[0].ID)
	assert.Equal(t, "One Piece", mangas[0].Title)
	assert.Equal(t, "https://img.lermanga.org/op.jpg", mangas[0].CoverURL)
	require.NotNil(t, mangas[0].Rating)
	assert.Equal(t, 9.2, *mangas[0].Rating)
}

func TestSearch_DegradesToEmptyOnFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	mangas := client.Search(context.Background(), "one piece")
	assert.NotNil(t, mangas)
	assert.Empty(t, mangas)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	var query url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/filter", r.URL.Path)
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[{"slug": "berserk", "title": "Berserk"}]`))
	})

	mangas := client.Filter(context.Background(), FilterOptions{
		Genres: "acao,aventura",
		Status: "ongoing",
		Order:  "rating",
		Page:   2,
	})
	require.Len(t, mangas, 1)
	assert.Equal(t, "acao,aventura", query.Get("genres"))
	assert.Equal(t, "ongoing", query.Get("status"))
	assert.Equal(t, "rating", query.Get("order"))
	assert.Equal(t, "2", query.Get("page"))
}

func TestGenres(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/genres", r.URL.Path)
		_, _ = w.Write([]byte(`[{"name": "Ação", "slug": "acao"}, {"name": "Aventura", "slug": "aventura"}]`))
	})

	genres := client.Genres(context.Background())
	require.Len(t, genres, 2)
	assert.Equal(t, &models.Genre{Name: "Ação", Slug: "acao"}, genres[0])
}

func TestGenres_DegradesToEmptyOnFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	genres := client.Genres(context.Background())
	assert.NotNil(t, genres)
	assert.Empty(t, genres)
}

func TestMangaBySlug(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/manga/one-piece", r.URL.Path)
		_, _ = w.Write([]byte(detailsJSON))
	})

	manga, err := client.MangaBySlug(context.Background(), "one-piece")
	require.NoError(t, err)
	assert.Equal(t, "one-piece", manga.ID)
	assert.Equal(t, "One Piece", manga.Title)
	// cover_image and summary are normalized into the canonical field names.
	assert.Equal(t, "https://img.lermanga.org/one-piece.jpg", manga.CoverURL)
	assert.Equal(t, "Um garoto de borracha.", manga.Description)
	assert.Equal(t, []string{"Ação", "Aventura"}, manga.Genres)
}

func TestMangaBySlug_PropagatesFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.MangaBySlug(context.Background(), "missing")
	require.Error(t, err)
}

func TestChapters(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailsJSON))
	})

	chapters, err := client.Chapters(context.Background(), "one-piece")
	require.NoError(t, err)
	require.Len(t, chapters, 2)

	// Id synthesized from the URL number, including decimal chapters.
	assert.Equal(t, "1100.5", chapters[0].ID)
	assert.Equal(t, "1100.5", chapters[0].Number)
	assert.Equal(t, "Capítulo 1100.5", chapters[0].Title)
	assert.Equal(t, "01/03/2024", chapters[0].Date)
	assert.Equal(t, "one-piece", chapters[0].MangaSlug)

	// URL without the expected convention falls back to the title.
	assert.Equal(t, "Especial de Natal", chapters[1].ID)
	assert.Equal(t, "N/A", chapters[1].Number)
	assert.Equal(t, "one-piece", chapters[1].MangaSlug)
}

func TestChapters_SynthesizedIDIsStable(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailsJSON))
	})

	first, err := client.Chapters(context.Background(), "one-piece")
	require.NoError(t, err)
	second, err := client.Chapters(context.Background(), "one-piece")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChapterPages(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/manga/one-piece/chapter/1100.5", r.URL.Path)
		_, _ = w.Write([]byte(`{"images": ["https://img.lermanga.org/p1.jpg", "https://img.lermanga.org/p2.jpg"]}`))
	})

	pages, err := client.ChapterPages(context.Background(), "one-piece", "1100.5")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t,
		"/images/lermanga?url="+url.QueryEscape("https://img.lermanga.org/p1.jpg"),
		pages[0])
}

func TestChapterPages_PropagatesFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ChapterPages(context.Background(), "one-piece", "1")
	require.Error(t, err)
}
