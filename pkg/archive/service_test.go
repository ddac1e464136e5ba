package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mangaden/mangaden/pkg/config"
	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/imageproxy"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	pages []string
	err   error
}

func (f *fakeResolver) ChapterPages(_ context.Context, _ models.Source, _, _ string) ([]string, error) {
	return f.pages, f.err
}

func newTestService(t *testing.T, resolver PageResolver) *Service {
	t.Helper()

	cfg := config.NewForTest()
	cfg.ArchiveRetryDelay = time.Millisecond

	return NewService(resolver, cfg)
}

func TestFetchChapterPages(t *testing.T) {
	t.Run("downloads every page in order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("image:" + r.URL.Path))
		}))
		defer server.Close()

		resolver := &fakeResolver{pages: []string{
			imageproxy.ProxyURL(models.SourceMangaDex, server.URL+"/a.png"),
			imageproxy.ProxyURL(models.SourceMangaDex, server.URL+"/b.jpg"),
			imageproxy.ProxyURL(models.SourceMangaDex, server.URL+"/c"),
		}}

		svc := newTestService(t, resolver)
		pages, err := svc.FetchChapterPages(context.Background(), models.SourceMangaDex, "ch-1", "")
		require.NoError(t, err)
		require.Len(t, pages, 3)
		assert.Equal(t, "001.png", pages[0].Name)
		assert.Equal(t, "002.jpg", pages[1].Name)
		assert.Equal(t, "003.jpg", pages[2].Name)
		assert.Equal(t, []byte("image:/a.png"), pages[0].Data)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte("ok"))
		}))
		defer server.Close()

		resolver := &fakeResolver{pages: []string{
			imageproxy.ProxyURL(models.SourceLerManga, server.URL+"/p1.jpg"),
		}}

		svc := newTestService(t, resolver)
		pages, err := svc.FetchChapterPages(context.Background(), models.SourceLerManga, "1", "some-slug")
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, []byte("ok"), pages[0].Data)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("a missing page aborts the whole batch", func(t *testing.T) {
		var missingCalls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing.jpg" {
				atomic.AddInt32(&missingCalls, 1)
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte("ok"))
		}))
		defer server.Close()

		resolver := &fakeResolver{pages: []string{
			imageproxy.ProxyURL(models.SourceMangaDex, server.URL+"/p1.jpg"),
			imageproxy.ProxyURL(models.SourceMangaDex, server.URL+"/missing.jpg"),
			imageproxy.ProxyURL(models.SourceMangaDex, server.URL+"/p3.jpg"),
		}}

		svc := newTestService(t, resolver)
		_, err := svc.FetchChapterPages(context.Background(), models.SourceMangaDex, "ch-1", "")
		require.Error(t, err)
		// A 404 is terminal; no retry budget is spent on it.
		assert.Equal(t, int32(1), atomic.LoadInt32(&missingCalls))
	})

	t.Run("resolver errors propagate", func(t *testing.T) {
		resolver := &fakeResolver{err: errcodes.NotFound("Chapter")}
		svc := newTestService(t, resolver)

		_, err := svc.FetchChapterPages(context.Background(), models.SourceMangaDex, "ch-1", "")
		assert.ErrorIs(t, err, errcodes.NotFound("Chapter"))
	})

	t.Run("a chapter with no pages is not found", func(t *testing.T) {
		resolver := &fakeResolver{pages: []string{}}
		svc := newTestService(t, resolver)

		_, err := svc.FetchChapterPages(context.Background(), models.SourceMangaDex, "ch-1", "")
		assert.ErrorIs(t, err, errcodes.NotFound("Chapter"))
	})
}

func TestWriteZip(t *testing.T) {
	pages := []Page{
		{Name: "001.jpg", Data: []byte("first")},
		{Name: "002.jpg", Data: []byte("second")},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteZip(buf, pages))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "001.jpg", zr.File[0].Name)
	assert.Equal(t, "002.jpg", zr.File[1].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), content)
}
