package recommend

import (
	"errors"
	"fmt"

	"bibliomatch/internal/entity"
)

// ErrNotFound is returned when the recommendation service has no
// sufficiently close match for a query.
var ErrNotFound = errors.New("no close match for that title")

// ErrEmptyQuery is returned when a query is blank after trimming. Callers
// treat it as "nothing to do", not as a user-visible failure.
var ErrEmptyQuery = errors.New("empty query")

// ErrSeedSetFull is returned when a seed set already holds MaxSeeds titles.
var ErrSeedSetFull = errors.New("seed set is full")

// ErrDuplicateSeed is returned when the canonical title is already seeded.
var ErrDuplicateSeed = errors.New("title already in seed set")

// ErrNoSeeds is returned by Reveal when the seed set is empty.
var ErrNoSeeds = errors.New("seed set is empty")

// TransportError indicates a network or service failure talking to the
// recommendation service. It is retryable by the user, never automatically.
type TransportError struct {
	Err error
}

func (e TransportError) Error() string {
	return fmt.Errorf("recommendation service unreachable: %w", e.Err).Error()
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te TransportError
	return errors.As(err, &te)
}

// Result is a successful title resolution: the single best match plus
// related books in the service's relevance order.
type Result struct {
	Found   entity.Book
	Related []entity.Book
}
