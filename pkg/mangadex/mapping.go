package mangadex

import (
	"sort"
	"time"

	"github.com/mangaden/mangaden/pkg/imageproxy"
	"github.com/mangaden/mangaden/pkg/models"
)

const (
	unknownTitle       = "Unknown Title"
	unknownAuthor      = "Unknown"
	noSynopsis         = "Nenhuma sinopse disponível."
	noChapterLabel     = "N/A"
	chapterDateLayout  = "02/01/2006"
	publishedAtLayout  = time.RFC3339
	relTypeCoverArt    = "cover_art"
	relTypeAuthor      = "author"
	coverThumbSuffix   = ".256.jpg"
	coverHeroSuffix    = ".512.jpg"
	descriptionPrimary = "en"
	descriptionSecond  = "pt"
)

func (c *Client) mapMangaList(data []manga) []*models.CatalogManga {
	results := make([]*models.CatalogManga, 0, len(data))
	for _, m := range data {
		results = append(results, c.mapManga(m, coverThumbSuffix))
	}
	return results
}

// mapDetails uses the larger cover rendition since details back a hero layout.
func (c *Client) mapDetails(m manga) *models.CatalogManga {
	return c.mapManga(m, coverHeroSuffix)
}

func (c *Client) mapManga(m manga, coverSuffix string) *models.CatalogManga {
	author := unknownAuthor
	if rel := findRelationship(m, relTypeAuthor); rel != nil && rel.Attributes.Name != "" {
		author = rel.Attributes.Name
	}

	genres := make([]string, 0, len(m.Attributes.Tags))
	for _, t := range m.Attributes.Tags {
		genres = append(genres, preferredName(t.Attributes.Name))
	}

	totalChapters := m.Attributes.LastChapter
	if totalChapters == "" {
		totalChapters = noChapterLabel
	}

	return &models.CatalogManga{
		Source:        models.SourceMangaDex,
		ID:            m.ID,
		Title:         resolveTitle(m.Attributes.Title),
		Author:        author,
		Description:   resolveDescription(m.Attributes.Description),
		Genres:        genres,
		Status:        mapStatus(m.Attributes.Status),
		TotalChapters: totalChapters,
		CoverURL:      c.coverURL(m, coverSuffix),
		HeroURL:       c.coverURL(m, coverHeroSuffix),
	}
}

func mapChapter(ch feedChapter) *models.CatalogChapter {
	number := ch.Attributes.Chapter
	if number == "" {
		number = noChapterLabel
	}

	title := ""
	if ch.Attributes.Title != nil {
		title = *ch.Attributes.Title
	}

	date := ""
	if ch.Attributes.PublishAt != "" {
		if t, err := time.Parse(publishedAtLayout, ch.Attributes.PublishAt); err == nil {
			date = t.Format(chapterDateLayout)
		}
	}

	return &models.CatalogChapter{
		ID:     ch.ID,
		Number: number,
		Title:  title,
		Date:   date,
		Pages:  ch.Attributes.Pages,
	}
}

// resolveTitle prefers the English title, then the first available title in
// any language, then a literal sentinel.
func resolveTitle(titles map[string]string) string {
	name := preferredName(titles)
	if name == "" {
		return unknownTitle
	}
	return name
}

// resolveDescription falls back across two languages before the sentinel.
func resolveDescription(descriptions map[string]string) string {
	if d := descriptions[descriptionPrimary]; d != "" {
		return d
	}
	if d := descriptions[descriptionSecond]; d != "" {
		return d
	}
	return noSynopsis
}

// preferredName returns the English entry of a localized string map, falling
// back to the first entry in key order so the fallback is deterministic.
func preferredName(names map[string]string) string {
	if name := names["en"]; name != "" {
		return name
	}
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if names[k] != "" {
			return names[k]
		}
	}
	return ""
}

// mapStatus normalizes the upstream publication status to the canonical set.
func mapStatus(status string) string {
	switch status {
	case models.MangaStatusOngoing, models.MangaStatusCompleted, models.MangaStatusHiatus, models.MangaStatusCancelled:
		return status
	}
	return models.MangaStatusUnknown
}

// coverURL builds the proxied cover URL for a manga. Without a cover_art
// relationship the reference is empty and the presentation layer renders a
// placeholder.
func (c *Client) coverURL(m manga, suffix string) string {
	rel := findRelationship(m, relTypeCoverArt)
	if rel == nil || rel.Attributes.FileName == "" {
		return ""
	}
	raw := c.coverBaseURL + "/covers/" + m.ID + "/" + rel.Attributes.FileName + suffix
	return proxyImage(raw)
}

func findRelationship(m manga, relType string) *relationship {
	for i := range m.Relationships {
		if m.Relationships[i].Type == relType {
			return &m.Relationships[i]
		}
	}
	return nil
}

func proxyImage(raw string) string {
	return imageproxy.ProxyURL(models.SourceMangaDex, raw)
}
