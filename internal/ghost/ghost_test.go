package ghost

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mealwise/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID  = "abc123"
	testSecret = "00112233445566778899aabbccddeeff"
)

func TestFetchRecipes(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ghost/api/v3/content/posts/", r.URL.Path)
			assert.Equal(t, "test_key", r.URL.Query().Get("key"))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{
				"posts": [
					{"id": "1", "title": "Recipe 1", "html": "<h1>Recipe 1</h1>", "updated_at": "2023-10-27T10:00:00Z"},
					{"id": "2", "title": "Recipe 2", "html": "<h1>Recipe 2</h1>", "updated_at": "2023-10-28T10:00:00Z"}
				],
				"meta": {"pagination": {"page": 1, "pages": 1, "total": 2}}
			}`)
		}))
		defer server.Close()

		client := NewClient(&config.Config{GhostURL: server.URL, GhostContentKey: "test_key"})

		posts, err := client.FetchRecipes(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "Recipe 2", posts[1].Title)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(&config.Config{GhostURL: server.URL, GhostContentKey: "test_key"})

		_, err := client.FetchRecipes(context.Background())
		assert.ErrorContains(t, err, "status 500")
	})
}

func TestCreatePost(t *testing.T) {
	t.Run("SignsTokenAndSendsDraft", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "html", r.URL.Query().Get("source"))

			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Ghost ")
			secret, _ := hex.DecodeString(testSecret)
			token, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
				assert.Equal(t, testKeyID, tok.Header["kid"])
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithAudience("/v3/admin/"))
			if assert.NoError(t, err) {
				assert.True(t, token.Valid)
			}

			var body struct {
				Posts []map[string]string `json:"posts"`
			}
			if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) || !assert.Len(t, body.Posts, 1) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			assert.Equal(t, "draft", body.Posts[0]["status"])

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"posts":[{"id":"p1","title":%q,"html":%q,"status":"draft"}]}`, body.Posts[0]["title"], body.Posts[0]["html"])
		}))
		defer server.Close()

		client := NewClient(&config.Config{GhostURL: server.URL, GhostAdminKey: testKeyID + ":" + testSecret})

		post, err := client.CreatePost(context.Background(), "Week plan", "<p>hi</p>", false)
		require.NoError(t, err)
		assert.Equal(t, "p1", post.ID)
		assert.Equal(t, "draft", post.Status)
	})

	t.Run("BadAdminKey", func(t *testing.T) {
		client := NewClient(&config.Config{GhostURL: "http://unused", GhostAdminKey: "no-colon"})
		_, err := client.CreatePost(context.Background(), "t", "h", true)
		assert.ErrorContains(t, err, "invalid admin key format")
	})

	t.Run("AdminAPIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errors":[{"message":"nope"}]}`))
		}))
		defer server.Close()

		client := NewClient(&config.Config{GhostURL: server.URL, GhostAdminKey: testKeyID + ":" + testSecret})
		_, err := client.CreatePost(context.Background(), "t", "h", true)
		assert.ErrorContains(t, err, "status 401")
	})
}

type recordingClient struct {
	title, html string
	publish     bool
}

func (r *recordingClient) FetchRecipes(context.Context) ([]Post, error) { return nil, nil }

func (r *recordingClient) CreatePost(_ context.Context, title, html string, publish bool) (*Post, error) {
	r.title, r.html, r.publish = title, html, publish
	return &Post{ID: "x", Title: title, HTML: html}, nil
}

func TestPublishMarkdown(t *testing.T) {
	rec := &recordingClient{}
	post, err := PublishMarkdown(context.Background(), rec, "Week", "## Monday\n\n- **Lunch**: Soup\n")
	require.NoError(t, err)

	assert.Equal(t, "x", post.ID)
	assert.False(t, rec.publish)
	assert.Contains(t, rec.html, "<h2>Monday</h2>")
	assert.Contains(t, rec.html, "<strong>Lunch</strong>: Soup")
}
