// Package shelf maintains the user's durable, deduplicated collection of
// saved books.
package shelf

import (
	"context"
	"errors"

	"bibliomatch/internal/entity"
)

// ErrAlreadyOnShelf is returned when adding a book whose identity is
// already on the shelf. It is an idempotency guard, not a failure.
var ErrAlreadyOnShelf = errors.New("book already on shelf")

// Repository persists the shelf as one ordered list, read and rewritten
// wholesale so no partial update is ever observable.
type Repository interface {
	Load(ctx context.Context) ([]entity.Book, error)
	Save(ctx context.Context, books []entity.Book) error
}
