package models

import (
	"fmt"

	"github.com/mangaden/mangaden/pkg/errcodes"
)

// Source identifies which upstream a manga or chapter reference originated
// from. Every reference in the system is the composite key (source, id);
// an id alone is ambiguous since MangaDex ids and LerManga slugs are not
// distinguishable by shape.
type Source string

const (
	SourceMangaDex Source = "mangadex"
	SourceLerManga Source = "lermanga"
)

// ParseSource validates a source discriminator. Anything other than the two
// known sources is rejected; routing never guesses a default.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceMangaDex:
		return SourceMangaDex, nil
	case SourceLerManga:
		return SourceLerManga, nil
	}
	return "", errcodes.ValidationError(fmt.Sprintf("%q is not a valid source", s))
}

// Manga publication statuses.
const (
	MangaStatusOngoing   = "ongoing"
	MangaStatusCompleted = "completed"
	MangaStatusHiatus    = "hiatus"
	MangaStatusCancelled = "cancelled"
	MangaStatusUnknown   = "unknown"
)
