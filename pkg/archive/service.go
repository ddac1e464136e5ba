package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/avast/retry-go"
	"github.com/mangaden/mangaden/pkg/config"
	"github.com/mangaden/mangaden/pkg/errcodes"
	"github.com/mangaden/mangaden/pkg/imageproxy"
	"github.com/mangaden/mangaden/pkg/models"
	"github.com/pkg/errors"
)

const defaultPageExt = ".jpg"

// PageResolver resolves a chapter into its ordered page URLs.
type PageResolver interface {
	ChapterPages(ctx context.Context, source models.Source, chapterID, mangaSlug string) ([]string, error)
}

// Service downloads whole chapters as zip archives. Pages are fetched up
// front and the archive is only written once every page is in hand; a chapter
// with a missing page yields an error, never a partial archive.
type Service struct {
	resolver   PageResolver
	cfg        *config.Config
	httpClient *http.Client
}

// Page is one downloaded page, named for its position in the archive.
type Page struct {
	Name string
	Data []byte
}

// NewService creates a new archive service.
func NewService(resolver PageResolver, cfg *config.Config) *Service {
	return &Service{
		resolver: resolver,
		cfg:      cfg,
		httpClient: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
	}
}

// FetchChapterPages resolves and downloads every page of a chapter. Each page
// gets a bounded retry budget; the first page that exhausts it aborts the
// whole batch.
func (s *Service) FetchChapterPages(ctx context.Context, source models.Source, chapterID, mangaSlug string) ([]Page, error) {
	urls, err := s.resolver.ChapterPages(ctx, source, chapterID, mangaSlug)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, errcodes.NotFound("Chapter")
	}

	pages := make([]Page, 0, len(urls))
	for i, pageURL := range urls {
		data, ext, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{
			Name: fmt.Sprintf("%03d%s", i+1, ext),
			Data: data,
		})
	}
	return pages, nil
}

func (s *Service) fetchPage(ctx context.Context, proxyPath string) ([]byte, string, error) {
	source, upstream, err := imageproxy.UpstreamURL(proxyPath)
	if err != nil {
		return nil, "", err
	}

	ext := path.Ext(upstream)
	if ext == "" {
		ext = defaultPageExt
	}

	var data []byte
	err = retry.Do(func() error {
		req, err := imageproxy.UpstreamRequest(ctx, s.cfg, source, upstream)
		if err != nil {
			return retry.Unrecoverable(err)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return errors.WithStack(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := errors.Errorf("page fetch returned status %d for %s", resp.StatusCode, upstream)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return retry.Unrecoverable(err)
			}
			return err
		}

		data, err = io.ReadAll(resp.Body)
		return errors.WithStack(err)
	},
		retry.Delay(s.cfg.ArchiveRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.Attempts(s.cfg.ArchiveRetryAttempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, "", err
	}
	return data, ext, nil
}

// WriteZip writes the pages to w as a zip archive. Page names are zero padded
// so readers that sort by filename keep the page order.
func WriteZip(w io.Writer, pages []Page) error {
	zw := zip.NewWriter(w)
	for _, page := range pages {
		f, err := zw.Create(page.Name)
		if err != nil {
			return errors.WithStack(err)
		}
		if _, err := f.Write(page.Data); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(zw.Close())
}
