package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"mealwise/internal/config"
	"mealwise/internal/database"
	"mealwise/internal/ghost"
	"mealwise/internal/llm"
	"mealwise/internal/metrics"
	"mealwise/internal/schedule"
	"mealwise/internal/shared"
	"mealwise/internal/storage"
	"mealwise/internal/suggest"

	"go.uber.org/zap"
)

// ErrMetricsUnavailable is returned by metric operations when the store has no SQL database.
var ErrMetricsUnavailable = errors.New("metrics require the sqlite store")

// defaultImportDelay keeps Ghost imports under the free-tier LLM rate limit (15 RPM).
const defaultImportDelay = 5 * time.Second

// App holds the application's dependencies.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	planner *Planner

	kv           storage.KV
	metricsStore *metrics.Store
	closeStore   func() error

	mu          sync.Mutex
	textGen     llm.TextGenerator
	ghostClient ghost.Client

	intn        schedule.IntnFunc
	importDelay time.Duration
}

// Option customises an App.
type Option func(*App)

// WithTextGenerator replaces the configured LLM. The generator is used as is, without caching.
func WithTextGenerator(g llm.TextGenerator) Option {
	return func(a *App) { a.textGen = g }
}

// WithGhostClient replaces the configured Ghost client.
func WithGhostClient(c ghost.Client) Option {
	return func(a *App) { a.ghostClient = c }
}

// WithStore uses kv instead of opening the configured backend.
func WithStore(kv storage.KV) Option {
	return func(a *App) { a.kv = kv }
}

// WithMetricsStore records agent executions into m.
func WithMetricsStore(m *metrics.Store) Option {
	return func(a *App) { a.metricsStore = m }
}

// WithIntn fixes the random source of AutoFill.
func WithIntn(intn schedule.IntnFunc) Option {
	return func(a *App) { a.intn = intn }
}

// WithImportDelay sets the pause between Ghost posts during an import.
func WithImportDelay(d time.Duration) Option {
	return func(a *App) { a.importDelay = d }
}

// New opens the configured store and loads the planner from it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	a := &App{
		cfg:         cfg,
		logger:      logger,
		closeStore:  func() error { return nil },
		importDelay: defaultImportDelay,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.kv == nil {
		if err := a.openStore(ctx); err != nil {
			return nil, err
		}
	}

	p, err := LoadPlanner(ctx, a.kv, logger, PlannerOptions{Intn: a.intn})
	if err != nil {
		_ = a.closeStore()
		return nil, fmt.Errorf("failed to load planner: %w", err)
	}
	a.planner = p
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.cfg.Store {
	case config.StoreSQLite:
		db, err := database.NewDB(a.cfg.DatabasePath, a.logger)
		if err != nil {
			return err
		}
		a.kv = storage.NewSQLiteStore(db.SQL)
		if a.metricsStore == nil {
			a.metricsStore = metrics.NewStore(db.SQL)
		}
		a.closeStore = db.Close
	case config.StoreFile:
		fs, err := storage.NewFileStore(a.cfg.FileStorePath)
		if err != nil {
			return err
		}
		a.kv = fs
	case config.StoreRedis:
		rs, err := storage.NewRedisStore(ctx, a.cfg.RedisAddr, "mealwise:")
		if err != nil {
			return err
		}
		a.kv = rs
		a.closeStore = rs.Close
	case config.StoreMemory:
		a.kv = storage.NewMemoryStore()
	default:
		return fmt.Errorf("unsupported store %q", a.cfg.Store)
	}
	a.logger.Info("Store opened", zap.String("backend", a.cfg.Store))
	return nil
}

// Planner returns the shared planner.
func (a *App) Planner() *Planner {
	return a.planner
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Save persists the planner.
func (a *App) Save(ctx context.Context) error {
	if err := a.planner.Save(ctx); err != nil {
		return fmt.Errorf("failed to save planner: %w", err)
	}
	return nil
}

// generator builds the LLM client on first use. Responses are cached in the store.
func (a *App) generator(ctx context.Context) (llm.TextGenerator, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.textGen != nil {
		return a.textGen, nil
	}
	gen, err := llm.NewFromConfig(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.textGen = llm.NewCachedGenerator(gen, a.kv, a.logger)
	return a.textGen, nil
}

func (a *App) ghost() (ghost.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ghostClient != nil {
		return a.ghostClient, nil
	}
	if err := a.cfg.RequireGhost(); err != nil {
		return nil, err
	}
	a.ghostClient = ghost.NewClient(a.cfg)
	return a.ghostClient, nil
}

func (a *App) recordMeta(ctx context.Context, meta shared.AgentMeta) {
	if meta.AgentName == "" {
		return
	}
	a.logger.Debug("Agent finished",
		zap.String("agent", meta.AgentName),
		zap.String("model", meta.Usage.Model),
		zap.Int("tokens", meta.Usage.Total()),
		zap.Duration("latency", meta.Latency))
	if a.metricsStore == nil {
		return
	}
	if err := a.metricsStore.RecordMeta(ctx, meta); err != nil {
		a.logger.Warn("Failed to record metrics", zap.String("agent", meta.AgentName), zap.Error(err))
	}
}

// Suggest asks the LLM for recipe ideas.
func (a *App) Suggest(ctx context.Context, dietaryPreferences, availableIngredients string) ([]string, error) {
	gen, err := a.generator(ctx)
	if err != nil {
		return nil, err
	}
	res, err := suggest.NewSuggester(gen).Suggest(ctx, dietaryPreferences, availableIngredients)
	a.recordMeta(ctx, res.Meta)
	if err != nil {
		return nil, err
	}
	return res.Recipes, nil
}

// Publish posts the week and its shopping list to Ghost as a draft.
func (a *App) Publish(ctx context.Context, title string) (*ghost.Post, error) {
	client, err := a.ghost()
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = "Meal plan for the week of " + time.Now().Format("January 2, 2006")
	}
	return ghost.PublishMarkdown(ctx, client, title, a.planner.PlanMarkdown())
}

// Metrics renders system health and the last week of LLM usage.
func (a *App) Metrics(ctx context.Context) (string, error) {
	var usage []metrics.DailyUsage
	if a.metricsStore != nil {
		var err error
		if usage, err = a.metricsStore.GetDailyUsage(ctx, 7); err != nil {
			return "", err
		}
	}
	return metrics.Report(metrics.GetSysHealth(a.dataDir()), usage), nil
}

// Health reports process and data-directory statistics.
func (a *App) Health() metrics.SysHealth {
	return metrics.GetSysHealth(a.dataDir())
}

// CleanupMetrics deletes execution metrics older than days.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int64, error) {
	if a.metricsStore == nil {
		return 0, ErrMetricsUnavailable
	}
	return a.metricsStore.Cleanup(ctx, days)
}

func (a *App) dataDir() string {
	switch a.cfg.Store {
	case config.StoreSQLite:
		return filepath.Dir(a.cfg.DatabasePath)
	case config.StoreFile:
		return a.cfg.FileStorePath
	}
	return ""
}

// Close releases the LLM client and the store.
func (a *App) Close() error {
	a.mu.Lock()
	gen := a.textGen
	a.mu.Unlock()

	var errs []error
	if c, ok := gen.(llm.Closer); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, a.closeStore())
	return errors.Join(errs...)
}
