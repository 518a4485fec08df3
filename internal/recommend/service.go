package recommend

import (
	"context"
	"errors"
	"strings"

	"bibliomatch/internal/entity"
	"bibliomatch/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service resolves free-text titles into canonical book identities and
// merges seed sets into aggregate recommendations.
type Service struct {
	client  Client
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewService creates a new resolution service.
func NewService(client Client, m *metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{client: client, metrics: m, log: log}
}

// Resolve submits query to the recommendation service and returns the best
// matching identity plus related books in service order. A blank query (after
// trimming) yields ErrEmptyQuery without touching the network. Failures are
// terminal for the call; no retry happens here.
func (s *Service) Resolve(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	log := s.log.With().Str("trace_id", uuid.NewString()).Str("query", query).Logger()

	res, err := s.client.Recommend(ctx, query)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			s.metrics.IncResolveError("not_found")
			log.Debug().Msg("no close match")
		case IsTransport(err):
			s.metrics.IncResolveError("transport")
			log.Warn().Err(err).Msg("recommendation service call failed")
		default:
			s.metrics.IncResolveError("other")
			log.Warn().Err(err).Msg("resolution failed")
		}
		return nil, err
	}

	log.Debug().
		Str("matched", res.Found.Title).
		Int("related", len(res.Related)).
		Msg("resolved title")
	return res, nil
}

// AddSeed resolves title and returns a new seed set containing the found
// book's canonical title. Storing the canonical title, not the raw input,
// normalizes spelling variants before the duplicate check. The receiver's
// seed set is returned unchanged on every failure.
func (s *Service) AddSeed(ctx context.Context, seeds SeedSet, title string) (SeedSet, error) {
	if seeds.Full() {
		return seeds, ErrSeedSetFull
	}

	res, err := s.Resolve(ctx, title)
	if err != nil {
		return seeds, err
	}

	canonical := res.Found.Title
	if seeds.Contains(canonical) {
		return seeds, ErrDuplicateSeed
	}
	return seeds.With(canonical), nil
}

// Reveal submits the full seed set in one batch call and returns the merged
// recommendation list verbatim: no client-side re-ranking, no deduplication
// against the seeds, no partial results.
func (s *Service) Reveal(ctx context.Context, seeds SeedSet) ([]entity.Book, error) {
	if seeds.Len() == 0 {
		return nil, ErrNoSeeds
	}

	books, err := s.client.TasteTest(ctx, seeds.Titles())
	if err != nil {
		s.metrics.IncResolveError("taste_test")
		s.log.Warn().Err(err).Int("seeds", seeds.Len()).Msg("taste test failed")
		return nil, err
	}

	s.log.Debug().Int("seeds", seeds.Len()).Int("results", len(books)).Msg("seed set revealed")
	return books, nil
}
