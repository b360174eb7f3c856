package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"mealwise/internal/storage"

	"go.uber.org/zap"
)

const cacheKeyPrefix = "llm_cache/"

// CachedGenerator wraps a TextGenerator and remembers responses per prompt,
// so re-clipping the same page or asking the same question costs no tokens.
type CachedGenerator struct {
	realGen TextGenerator
	kv      storage.KV
	logger  *zap.Logger
}

// NewCachedGenerator creates a new CachedGenerator.
func NewCachedGenerator(realGen TextGenerator, kv storage.KV, logger *zap.Logger) *CachedGenerator {
	return &CachedGenerator{realGen: realGen, kv: kv, logger: logger}
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// GenerateContent returns the cached response when present. Cached hits report
// zero token usage. Cache failures are logged and never fail the call.
func (c *CachedGenerator) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	key := cacheKey(prompt)

	raw, ok, err := c.kv.Load(ctx, key)
	if err != nil {
		c.logger.Warn("llm cache lookup failed", zap.Error(err))
	} else if ok {
		var content string
		if err := json.Unmarshal([]byte(raw), &content); err == nil {
			c.logger.Debug("llm cache hit", zap.String("key", key))
			return ContentResponse{Content: content}, nil
		}
	}

	resp, err := c.realGen.GenerateContent(ctx, prompt)
	if err != nil {
		return ContentResponse{}, err
	}

	data, err := json.Marshal(resp.Content)
	if err != nil {
		return resp, fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := c.kv.Store(ctx, key, string(data)); err != nil {
		c.logger.Warn("llm cache write failed", zap.Error(err))
	}
	return resp, nil
}

// Close closes the wrapped generator when it holds resources.
func (c *CachedGenerator) Close() error {
	if closer, ok := c.realGen.(Closer); ok {
		return closer.Close()
	}
	return nil
}
