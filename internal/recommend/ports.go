package recommend

import (
	"context"

	"bibliomatch/internal/entity"
)

// Client is the wire contract with the recommendation service. Implementations
// return ErrNotFound when the service reports no close match and wrap every
// network or protocol failure in a TransportError.
type Client interface {
	Recommend(ctx context.Context, query string) (*Result, error)
	TasteTest(ctx context.Context, titles []string) ([]entity.Book, error)
}
