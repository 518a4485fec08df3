package shelf

import (
	"context"
	"errors"
	"fmt"

	"bibliomatch/internal/entity"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
)

// shelfKey is the single durable record holding the JSON-encoded list.
const shelfKey = "shelf:books"

// BadgerRepository implements Repository on an embedded BadgerDB so the
// shelf survives process restarts without any external service.
type BadgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository creates a badger-backed shelf repository.
func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

// OpenDB opens (creating if needed) the badger database at path with
// badger's own logging silenced.
func OpenDB(path string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open shelf store at %s: %w", path, err)
	}
	return db, nil
}

// Load returns the persisted list, or an empty list when no shelf has been
// written yet. First use is not an error.
func (r *BadgerRepository) Load(ctx context.Context) ([]entity.Book, error) {
	var books []entity.Book

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(shelfKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get shelf: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &books)
		})
	})
	if err != nil {
		return nil, err
	}

	if books == nil {
		books = []entity.Book{}
	}
	return books, nil
}

// Save rewrites the whole shelf in one transaction.
func (r *BadgerRepository) Save(ctx context.Context, books []entity.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("marshal shelf: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(shelfKey), data)
	})
}
