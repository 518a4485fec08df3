package shelf

import (
	"context"
	"sync"

	"bibliomatch/internal/entity"

	"github.com/rs/zerolog"
)

// Service owns all mutation of the durable shelf. Each operation reads,
// modifies and rewrites the whole list under one lock, so concurrent calls
// from the same process cannot interleave partial updates.
type Service struct {
	repo Repository
	log  zerolog.Logger

	mu sync.Mutex
}

// NewService creates a shelf service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Load returns the saved books in insertion order. An empty shelf is a
// normal result, never an error.
func (s *Service) Load(ctx context.Context) ([]entity.Book, error) {
	return s.repo.Load(ctx)
}

// Add appends book to the shelf. A book with the same identity key is
// rejected with ErrAlreadyOnShelf and nothing is written.
func (s *Service) Add(ctx context.Context, book entity.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	for _, b := range books {
		if b.Same(book) {
			return ErrAlreadyOnShelf
		}
	}

	if err := s.repo.Save(ctx, append(books, book)); err != nil {
		return err
	}
	s.log.Debug().Str("title", book.Title).Msg("book added to shelf")
	return nil
}

// Remove deletes every entry matching title. Removing an absent title is a
// no-op, not an error.
func (s *Service) Remove(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	key := entity.Book{Title: title}.Key()
	kept := make([]entity.Book, 0, len(books))
	for _, b := range books {
		if b.Key() != key {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(books) {
		return nil
	}

	if err := s.repo.Save(ctx, kept); err != nil {
		return err
	}
	s.log.Debug().Str("title", title).Int("removed", len(books)-len(kept)).Msg("book removed from shelf")
	return nil
}
