package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinmichaelchen/portfolio-feed/internal/feed"
	"github.com/kevinmichaelchen/portfolio-feed/internal/github"
	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
	"github.com/kevinmichaelchen/portfolio-feed/internal/pipeline"
	"github.com/kevinmichaelchen/portfolio-feed/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFeeder struct {
	mu    sync.Mutex
	cards []models.Card
	err   error
	calls int
}

func (s *stubFeeder) FetchFeed(context.Context, string) ([]models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.cards, s.err
}

var liveCards = []models.Card{
	{
		Name:        "banking-payment-api",
		Title:       "Banking Payment Api",
		Description: "Payments",
		Tech:        []string{"Go", "payments"},
		Stars:       7,
		Forks:       2,
		Updated:     "Mar 5, 2024",
		SourceURL:   "https://github.com/octocat/banking-payment-api",
		LiveURL:     "https://demo.example.com",
		Image:       "https://picsum.photos/seed/golang/600/400",
	},
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Origin", "https://portfolio.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestIndexShowsLoadingIndicator(t *testing.T) {
	stub := &stubFeeder{cards: liveCards}
	srv := web.New(stub, web.Settings{User: "octocat"})

	w := do(t, srv.Handler(), http.MethodGet, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), feed.LoadingMessage)
	assert.Contains(t, w.Body.String(), `hx-get="/projects"`)
	assert.Equal(t, 0, stub.calls, "the page itself must not block on GitHub")
}

func TestProjectsRendered(t *testing.T) {
	srv := web.New(&stubFeeder{cards: liveCards}, web.Settings{User: "octocat"})

	w := do(t, srv.Handler(), http.MethodGet, "/projects")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, feed.LiveTitle)
	assert.Contains(t, body, "Banking Payment Api")
	assert.Contains(t, body, "Mar 5, 2024")
	assert.Contains(t, body, "https://demo.example.com")
	assert.NotContains(t, body, "error-message")
}

func TestProjectsFallback(t *testing.T) {
	stub := &stubFeeder{err: &github.FetchError{Kind: github.KindHTTPStatus, StatusCode: 503}}
	srv := web.New(stub, web.Settings{User: "octocat"})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		path := "/projects"
		if method == http.MethodPost {
			path = "/projects/refresh"
		}
		w := do(t, srv.Handler(), method, path)

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, feed.FallbackTitle)
		assert.Contains(t, body, "Banking Payment APIs")
		assert.Contains(t, body, "error-message")
		assert.Contains(t, body, feed.FallbackNotice)
		assert.Contains(t, body, "https://github.com/octocat")
	}
	assert.Equal(t, 2, stub.calls, "each request runs a fresh load")
}

func TestProjectsJSON(t *testing.T) {
	tests := []struct {
		name   string
		feeder *stubFeeder
		state  string
		title  string
		notice string
	}{
		{"rendered", &stubFeeder{cards: liveCards}, "rendered", feed.LiveTitle, ""},
		{"fallback", &stubFeeder{err: errors.New("boom")}, "fallback", feed.FallbackTitle, feed.FallbackNotice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := web.New(tt.feeder, web.Settings{User: "octocat", CORSOrigins: []string{"https://portfolio.example.com"}})

			w := do(t, srv.Handler(), http.MethodGet, "/api/projects")

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "https://portfolio.example.com", w.Header().Get("Access-Control-Allow-Origin"))

			var got struct {
				State  string        `json:"state"`
				Title  string        `json:"title"`
				Cards  []models.Card `json:"cards"`
				Notice string        `json:"notice"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.state, got.State)
			assert.Equal(t, tt.title, got.Title)
			assert.Equal(t, tt.notice, got.Notice)
			assert.NotEmpty(t, got.Cards)
		})
	}
}

func TestHealth(t *testing.T) {
	srv := web.New(&stubFeeder{}, web.Settings{})
	w := do(t, srv.Handler(), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "healthy"))
}

func TestTracker(t *testing.T) {
	var tr web.Tracker

	_, ok := tr.Latest()
	assert.False(t, ok)

	older := tr.Begin()
	newer := tr.Begin()
	require.Less(t, older, newer)

	newerRes := pipeline.Result{Phase: pipeline.Rendered, Title: "newer"}
	olderRes := pipeline.Result{Phase: pipeline.Fallback, Title: "older"}

	assert.True(t, tr.Complete(newer, newerRes))
	assert.False(t, tr.Complete(older, olderRes), "older load finishing late is stale")

	latest, ok := tr.Latest()
	require.True(t, ok)
	assert.Equal(t, "newer", latest.Title)

	next := tr.Begin()
	assert.True(t, tr.Complete(next, olderRes))
	latest, _ = tr.Latest()
	assert.Equal(t, "older", latest.Title)
}

func TestTrackerInOrderCompletion(t *testing.T) {
	var tr web.Tracker
	first, second := tr.Begin(), tr.Begin()

	assert.True(t, tr.Complete(first, pipeline.Result{Title: "first"}))
	assert.True(t, tr.Complete(second, pipeline.Result{Title: "second"}))

	latest, _ := tr.Latest()
	assert.Equal(t, "second", latest.Title)
}
