package enrich

import (
	"context"

	"bibliomatch/internal/entity"
)

// Service composes description and cover resolution into one per-view
// enrichment step.
type Service struct {
	describer Describer
	covers    *CoverResolver
}

// NewService creates an enrichment service.
func NewService(describer Describer, covers *CoverResolver) *Service {
	return &Service{describer: describer, covers: covers}
}

// Describe resolves descriptive text for book. It never fails; see the
// Describer contract.
func (s *Service) Describe(ctx context.Context, book entity.Book) string {
	return s.describer.Describe(ctx, book)
}

// CoverURL resolves the cover image URL to attempt for book.
func (s *Service) CoverURL(book entity.Book, size CoverSize) string {
	return s.covers.URL(book, size)
}

// MarkCoverFailed records a cover URL whose image failed to load.
func (s *Service) MarkCoverFailed(url string) {
	s.covers.MarkFailed(url)
}

// Enrich builds the full per-view record for book: identity, description
// and cover URL.
func (s *Service) Enrich(ctx context.Context, book entity.Book, size CoverSize) EnrichedBook {
	return EnrichedBook{
		Book:        book,
		Description: s.Describe(ctx, book),
		CoverURL:    s.CoverURL(book, size),
	}
}
