// Package enrich resolves best-effort descriptions and cover images for
// book identities. Enrichment never fails: every path settles to real text
// or a sentinel, and cover resolution always produces a usable URL.
package enrich

import (
	"context"

	"bibliomatch/internal/entity"
)

// Sentinel texts returned when real content could not be obtained. They are
// fixed so callers (and tests) can tell placeholders from genuine content.
const (
	NoDescriptionText       = "No description available in the ancient texts."
	ArchivesUnreachableText = "The archives are currently unreachable."
)

// IsSentinel reports whether text is one of the placeholder descriptions.
func IsSentinel(text string) bool {
	return text == NoDescriptionText || text == ArchivesUnreachableText
}

// Describer resolves descriptive text for a book. Implementations never
// return an error: they settle to real text or a sentinel within a bounded
// number of provider calls.
type Describer interface {
	Describe(ctx context.Context, book entity.Book) string
}

// EnrichedBook is a book identity plus its per-view enrichment. Enrichment
// is recomputed for every view and never persisted.
type EnrichedBook struct {
	entity.Book
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
}
