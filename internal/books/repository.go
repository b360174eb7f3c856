package books

import (
	"context"
	"encoding/json"
	"fmt"

	"mealwise/internal/storage"

	"go.uber.org/zap"
)

// StorageKey is the key the book collection is persisted under.
const StorageKey = "book-tracker-collection"

// Repository loads and saves the book collection.
type Repository struct {
	kv     storage.KV
	logger *zap.Logger
	opts   []Option
}

// NewRepository creates a new Repository. Options are applied to every loaded collection.
func NewRepository(kv storage.KV, logger *zap.Logger, opts ...Option) *Repository {
	return &Repository{kv: kv, logger: logger, opts: opts}
}

// Load restores the collection; missing or unreadable data is an empty shelf.
func (r *Repository) Load(ctx context.Context) (*Collection, error) {
	raw, ok, err := r.kv.Load(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	if !ok || raw == "" {
		return NewCollection(nil, r.opts...), nil
	}

	var stored []TrackedBook
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.logger.Warn("discarding malformed book data", zap.Error(err))
		return NewCollection(nil, r.opts...), nil
	}
	return NewCollection(stored, r.opts...), nil
}

// Save writes the whole collection.
func (r *Repository) Save(ctx context.Context, c *Collection) error {
	data, err := json.Marshal(c.All())
	if err != nil {
		return fmt.Errorf("failed to marshal books: %w", err)
	}
	if err := r.kv.Store(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save books: %w", err)
	}
	return nil
}
