package recipe

import (
	"context"
	"encoding/json"
	"fmt"

	"mealwise/internal/storage"

	"go.uber.org/zap"
)

// StorageKey is the key the recipe collection is persisted under.
const StorageKey = "mealwise_recipes"

// Repository loads and saves the recipe collection as a JSON array.
type Repository struct {
	kv     storage.KV
	logger *zap.Logger
}

// NewRepository creates a new Repository.
func NewRepository(kv storage.KV, logger *zap.Logger) *Repository {
	return &Repository{kv: kv, logger: logger}
}

// Load restores the collection. Missing or malformed data yields an empty collection;
// only storage failures are returned as errors.
func (r *Repository) Load(ctx context.Context) (*Collection, error) {
	raw, ok, err := r.kv.Load(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	if !ok || raw == "" {
		return NewCollection(), nil
	}

	var recipes []Recipe
	if err := json.Unmarshal([]byte(raw), &recipes); err != nil {
		r.logger.Warn("discarding malformed recipe data", zap.Error(err))
		return NewCollection(), nil
	}

	valid := recipes[:0]
	for _, rec := range recipes {
		if rec.ID == "" {
			r.logger.Warn("skipping stored recipe without id", zap.String("name", rec.Name))
			continue
		}
		valid = append(valid, rec)
	}
	return NewCollection(valid...), nil
}

// Save writes the whole collection.
func (r *Repository) Save(ctx context.Context, c *Collection) error {
	recipes := c.List()
	data, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("failed to marshal recipes: %w", err)
	}
	if err := r.kv.Store(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save recipes: %w", err)
	}
	return nil
}
