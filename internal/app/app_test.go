package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"mealwise/internal/config"
	"mealwise/internal/database"
	"mealwise/internal/ghost"
	"mealwise/internal/llm"
	"mealwise/internal/metrics"
	"mealwise/internal/recipe"
	"mealwise/internal/schedule"
	"mealwise/internal/shared"
	"mealwise/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTextGen struct {
	res   string
	err   error
	calls int
}

func (m *mockTextGen) GenerateContent(_ context.Context, _ string) (llm.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{Content: m.res, Usage: shared.TokenUsage{PromptTokens: 10, CompletionTokens: 5, Model: "mock"}}, nil
}

type fakeGhost struct {
	posts   []ghost.Post
	fetched error
	created []string
}

func (f *fakeGhost) FetchRecipes(_ context.Context) ([]ghost.Post, error) {
	return f.posts, f.fetched
}

func (f *fakeGhost) CreatePost(_ context.Context, title, html string, publish bool) (*ghost.Post, error) {
	f.created = append(f.created, html)
	return &ghost.Post{ID: "post-1", Title: title, Status: "draft"}, nil
}

func newTestApp(t *testing.T, opts ...Option) (*App, *metrics.Store) {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ms := metrics.NewStore(db.SQL)

	cfg := &config.Config{Store: config.StoreMemory}
	base := []Option{WithStore(storage.NewMemoryStore()), WithMetricsStore(ms), WithImportDelay(0)}
	a, err := New(context.Background(), cfg, zap.NewNop(), append(base, opts...)...)
	require.NoError(t, err)
	return a, ms
}

func totalExecutions(t *testing.T, ms *metrics.Store) int {
	t.Helper()
	usage, err := ms.GetDailyUsage(context.Background(), 1)
	require.NoError(t, err)
	n := 0
	for _, u := range usage {
		n += u.TotalExecution
	}
	return n
}

func testRecipe(name string) recipe.Recipe {
	return recipe.Recipe{Name: name, Ingredients: []recipe.Ingredient{{Name: "Water", Quantity: "1 l"}}}
}

const pieJSON = `{"name":"Apple Pie","ingredients":[{"name":"Apple","quantity":"3"}],"instructions":"Bake"}`

func TestClipURL(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>Pie</title></head><body>Apples</body></html>"))
	}))
	defer page.Close()

	t.Run("AddsAndRecords", func(t *testing.T) {
		a, ms := newTestApp(t, WithTextGenerator(&mockTextGen{res: pieJSON}))

		r, err := a.ClipURL(context.Background(), page.URL)
		require.NoError(t, err)
		assert.Equal(t, "Apple Pie", r.Name)
		assert.NotEmpty(t, r.ID)

		_, ok := a.Planner().FindRecipe("apple pie")
		assert.True(t, ok)
		assert.Equal(t, 1, totalExecutions(t, ms))
	})

	t.Run("LLMFailure", func(t *testing.T) {
		a, _ := newTestApp(t, WithTextGenerator(&mockTextGen{err: errors.New("quota")}))
		_, err := a.ClipURL(context.Background(), page.URL)
		assert.Error(t, err)
		assert.Empty(t, a.Planner().Recipes())
	})
}

func TestImportGhost(t *testing.T) {
	ctx := context.Background()

	t.Run("SkipsExistingTitles", func(t *testing.T) {
		gen := &mockTextGen{res: pieJSON}
		gh := &fakeGhost{posts: []ghost.Post{
			{ID: "1", Title: "Apple Pie", HTML: "<p>apples</p>"},
			{ID: "2", Title: "Plum Cake", HTML: "<p>plums</p>"},
		}}
		a, _ := newTestApp(t, WithTextGenerator(gen), WithGhostClient(gh))

		sum, err := a.ImportGhost(ctx)
		require.NoError(t, err)
		assert.Equal(t, ImportSummary{Imported: 2}, sum)
		_, ok := a.Planner().FindRecipe("Plum Cake")
		assert.True(t, ok, "post title wins over the extracted name")

		sum, err = a.ImportGhost(ctx)
		require.NoError(t, err)
		assert.Equal(t, ImportSummary{Skipped: 2}, sum)
		assert.Equal(t, 2, gen.calls)
	})

	t.Run("ExtractionFailureIsCounted", func(t *testing.T) {
		gh := &fakeGhost{posts: []ghost.Post{{ID: "1", Title: "Broken", HTML: "<p>?</p>"}}}
		a, _ := newTestApp(t, WithTextGenerator(&mockTextGen{res: "not json"}), WithGhostClient(gh))

		sum, err := a.ImportGhost(ctx)
		require.NoError(t, err)
		assert.Equal(t, ImportSummary{Failed: 1}, sum)
	})

	t.Run("FetchError", func(t *testing.T) {
		gh := &fakeGhost{fetched: errors.New("offline")}
		a, _ := newTestApp(t, WithTextGenerator(&mockTextGen{}), WithGhostClient(gh))
		_, err := a.ImportGhost(ctx)
		assert.ErrorContains(t, err, "failed to fetch recipes from ghost")
	})

	t.Run("GhostNotConfigured", func(t *testing.T) {
		a, _ := newTestApp(t, WithTextGenerator(&mockTextGen{}))
		_, err := a.ImportGhost(ctx)
		assert.Error(t, err)
	})
}

func TestPublish(t *testing.T) {
	gh := &fakeGhost{}
	a, _ := newTestApp(t, WithGhostClient(gh))
	p := a.Planner()
	soup, _ := addSoupAndStew(t, p)
	require.NoError(t, p.Assign(schedule.Monday, schedule.Lunch, soup.ID))

	post, err := a.Publish(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "draft", post.Status)
	assert.True(t, strings.HasPrefix(post.Title, "Meal plan for the week of"))

	require.Len(t, gh.created, 1)
	assert.Contains(t, gh.created[0], "<h2>Shopping List</h2>")
	assert.Contains(t, gh.created[0], "Soup")
}

func TestSuggest(t *testing.T) {
	a, ms := newTestApp(t, WithTextGenerator(&mockTextGen{res: `{"recipes":["Dal","Dal","Pilau"]}`}))
	names, err := a.Suggest(context.Background(), "vegetarian", "lentils")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dal", "Pilau"}, names)
	assert.Equal(t, 1, totalExecutions(t, ms))
}

func TestMetricsAndCleanup(t *testing.T) {
	ctx := context.Background()
	a, ms := newTestApp(t)
	require.NoError(t, ms.RecordMeta(ctx, shared.AgentMeta{AgentName: "Clipper", Usage: shared.TokenUsage{PromptTokens: 3}}))

	report, err := a.Metrics(ctx)
	require.NoError(t, err)
	assert.Contains(t, report, "*System*")

	n, err := a.CleanupMetrics(ctx, 30)
	require.NoError(t, err)
	assert.Zero(t, n)

	bare, err := New(ctx, &config.Config{Store: config.StoreMemory}, zap.NewNop())
	require.NoError(t, err)
	_, err = bare.CleanupMetrics(ctx, 30)
	assert.ErrorIs(t, err, ErrMetricsUnavailable)
	assert.NoError(t, bare.Close())
}

func TestNewOpensConfiguredStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("SQLite", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreSQLite, DatabasePath: filepath.Join(dir, "db", "mealwise.db")}
		a, err := New(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		_, err = a.Planner().AddRecipe(testRecipe("Soup"))
		require.NoError(t, err)
		require.NoError(t, a.Save(ctx))
		require.NoError(t, a.Close())

		b, err := New(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer b.Close()
		assert.Len(t, b.Planner().Recipes(), 1)
		_, err = b.CleanupMetrics(ctx, 1)
		assert.NoError(t, err)
	})

	t.Run("File", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreFile, FileStorePath: filepath.Join(dir, "files")}
		a, err := New(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, a.Save(ctx))
		assert.NoError(t, a.Close())
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := New(ctx, &config.Config{Store: "tape"}, zap.NewNop())
		assert.ErrorContains(t, err, "unsupported store")
	})
}

func TestCachedSuggestionsSkipModelAndMetrics(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	gen := &mockTextGen{res: `{"recipes":["Dal"]}`}
	a, ms := newTestApp(t, WithTextGenerator(llm.NewCachedGenerator(gen, kv, zap.NewNop())))

	for i := 0; i < 3; i++ {
		names, err := a.Suggest(ctx, "vegetarian", "lentils")
		require.NoError(t, err)
		assert.Equal(t, []string{"Dal"}, names)
	}

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, totalExecutions(t, ms), "cache hits report no usage")
}
