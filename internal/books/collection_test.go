package books

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mealwise/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func testOptions() []Option {
	n := 0
	return []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("book-%d", n)
		}),
	}
}

func shelf() *Collection {
	c := NewCollection(nil, testOptions()...)
	c.Save(TrackedBook{Title: "Dune", Author: "Frank Herbert", Status: Reading, Rating: 5})
	c.Save(TrackedBook{Title: "Emma", Author: "Jane Austen", Status: Completed, Rating: 4})
	c.Save(TrackedBook{Title: "Persuasion", Author: "Jane Austen"})
	return c
}

func TestCollection(t *testing.T) {
	t.Run("SaveAssignsDefaults", func(t *testing.T) {
		c := shelf()
		b, ok := c.Get("book-3")
		require.True(t, ok)
		assert.Equal(t, WantToRead, b.Status)
		assert.Equal(t, fixedNow, b.DateAdded)
	})

	t.Run("SaveUpserts", func(t *testing.T) {
		c := shelf()
		b, _ := c.Get("book-1")
		b.Notes = "reread"
		c.Save(b)

		assert.Equal(t, 3, c.Len())
		got, _ := c.Get("book-1")
		assert.Equal(t, "reread", got.Notes)
		assert.Equal(t, "book-1", c.All()[0].ID, "position kept")
	})

	t.Run("Delete", func(t *testing.T) {
		c := shelf()
		assert.True(t, c.Delete("book-2"))
		assert.False(t, c.Delete("book-2"))
		assert.Equal(t, 2, c.Len())
	})

	t.Run("Filter", func(t *testing.T) {
		c := shelf()
		tests := []struct {
			name    string
			filters Filters
			want    []string
		}{
			{"None", Filters{}, []string{"Dune", "Emma", "Persuasion"}},
			{"Status", Filters{Status: Completed}, []string{"Emma"}},
			{"Rating", Filters{Rating: 5}, []string{"Dune"}},
			{"AuthorSubstring", Filters{Author: "austen"}, []string{"Emma", "Persuasion"}},
			{"SearchTitle", Filters{SearchQuery: "DUN"}, []string{"Dune"}},
			{"SearchAuthor", Filters{SearchQuery: "jane"}, []string{"Emma", "Persuasion"}},
			{"Combined", Filters{Author: "austen", Status: WantToRead}, []string{"Persuasion"}},
			{"NoMatch", Filters{SearchQuery: "tolkien"}, nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var titles []string
				for _, b := range c.Filter(tt.filters) {
					titles = append(titles, b.Title)
				}
				assert.Equal(t, tt.want, titles)
			})
		}
	})

	t.Run("UpdateStatusStampsOnce", func(t *testing.T) {
		now := fixedNow
		c := NewCollection(nil, WithClock(func() time.Time { return now }))
		b := c.Save(TrackedBook{Title: "Emma"})

		require.True(t, c.UpdateStatus(b.ID, Reading))
		now = now.Add(24 * time.Hour)
		require.True(t, c.UpdateStatus(b.ID, Reading))
		require.True(t, c.UpdateStatus(b.ID, Completed))

		got, _ := c.Get(b.ID)
		require.NotNil(t, got.DateStarted)
		require.NotNil(t, got.DateCompleted)
		assert.Equal(t, fixedNow, *got.DateStarted)
		assert.Equal(t, now, *got.DateCompleted)
		assert.Equal(t, Completed, got.Status)

		assert.False(t, c.UpdateStatus("missing", Reading))
	})

	t.Run("UpdateRating", func(t *testing.T) {
		c := shelf()
		ok, err := c.UpdateRating("book-3", 3)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.UpdateRating("missing", 3)
		require.NoError(t, err)
		assert.False(t, ok)

		for _, bad := range []int{0, 6, -1} {
			_, err := c.UpdateRating("book-3", bad)
			assert.ErrorIs(t, err, ErrInvalidRating)
		}
		got, _ := c.Get("book-3")
		assert.Equal(t, 3, got.Rating)
	})

	t.Run("Track", func(t *testing.T) {
		c := NewCollection(nil, testOptions()...)
		b := c.Track(Candidate{
			Key:              "/works/OL893415W",
			Title:            "Dune",
			Authors:          []string{"Frank Herbert", "Someone Else"},
			FirstPublishYear: 1965,
			ISBNs:            []string{"9780441013593"},
			CoverID:          11481354,
		}, Reading)

		assert.Equal(t, "OL893415W", b.OLID)
		assert.Equal(t, "Frank Herbert", b.Author)
		assert.Equal(t, "9780441013593", b.ISBN)
		assert.Equal(t, "https://covers.openlibrary.org/b/id/11481354-M.jpg", b.CoverURL)
		assert.Equal(t, 1965, b.PublishedYear)
		assert.Equal(t, Reading, b.Status)
		assert.Equal(t, 0, c.Len(), "not saved")
	})
}

func TestExtractOLID(t *testing.T) {
	assert.Equal(t, "OL123W", ExtractOLID("/works/OL123W"))
	assert.Equal(t, "OL123W", ExtractOLID("/works/OL123W/editions"))
	assert.Equal(t, "OL9M", ExtractOLID("OL9M"))
	assert.Equal(t, "/works/", ExtractOLID("/works/"))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Want to read")
	require.NoError(t, err)
	assert.Equal(t, WantToRead, s)

	_, err = ParseStatus("abandoned")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestEntry(t *testing.T) {
	cand := CandidateEntry(Candidate{Title: "Dune"})
	assert.Equal(t, KindCandidate, cand.Kind())
	_, ok := cand.Tracked()
	assert.False(t, ok)
	c, ok := cand.Candidate()
	assert.True(t, ok)
	assert.Equal(t, "Dune", c.Title)

	tracked := TrackedEntry(TrackedBook{ID: "b", Title: "Emma"})
	assert.Equal(t, KindTracked, tracked.Kind())
	assert.Equal(t, "Emma", tracked.Title())
	assert.Equal(t, "tracked", tracked.Kind().String())
	_, ok = tracked.Candidate()
	assert.False(t, ok)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	repo := NewRepository(kv, zap.NewNop())

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	c := shelf()
	require.True(t, c.UpdateStatus("book-2", Completed))
	require.NoError(t, repo.Save(ctx, c))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, loaded.Len())
	got, _ := loaded.Get("book-2")
	require.NotNil(t, got.DateCompleted)
	assert.True(t, fixedNow.Equal(*got.DateCompleted))

	require.NoError(t, kv.Store(ctx, StorageKey, "{"))
	broken, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, broken.Len())
}
