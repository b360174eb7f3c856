package schedule

import (
	"context"
	"encoding/json"
	"fmt"

	"mealwise/internal/storage"

	"go.uber.org/zap"
)

// StorageKey is the key the weekly schedule is persisted under.
const StorageKey = "mealwise_schedule"

// Repository persists the week as an opaque JSON blob.
type Repository struct {
	kv     storage.KV
	logger *zap.Logger
}

// NewRepository creates a new Repository.
func NewRepository(kv storage.KV, logger *zap.Logger) *Repository {
	return &Repository{kv: kv, logger: logger}
}

// Load restores the week. Absent or malformed data falls back to the all-empty week.
func (r *Repository) Load(ctx context.Context) (Week, error) {
	raw, ok, err := r.kv.Load(ctx, StorageKey)
	if err != nil {
		return Week{}, fmt.Errorf("failed to load schedule: %w", err)
	}
	if !ok || raw == "" {
		return Week{}, nil
	}

	var w Week
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		r.logger.Warn("discarding malformed schedule data", zap.Error(err))
		return Week{}, nil
	}
	return w, nil
}

// Save writes the week.
func (r *Repository) Save(ctx context.Context, w Week) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}
	if err := r.kv.Store(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}
