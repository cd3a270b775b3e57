package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ClimbCoach/internal/config"
	"ClimbCoach/internal/domain"
	"ClimbCoach/internal/logging"
)

func stubProvider(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/categories"):
			_ = json.NewEncoder(w).Encode([]domain.Category{{ID: 8, Name: "Climb Coach", Slug: "climb-coach"}})
		case strings.HasSuffix(r.URL.Path, "/posts"):
			w.Header().Set("X-WP-TotalPages", "1")
			_ = json.NewEncoder(w).Encode([]domain.Post{{
				ID: 1, Slug: "mental-game", Categories: []int{8},
				Title: domain.Rendered{Rendered: "Mental Game"},
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	t.Setenv("CLIMBCOACH_CONFIG", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("WP_API_URL", baseURL)
	t.Setenv("WP_CATEGORY_SLUG", "")
	t.Setenv("HTTP_ADDR", "127.0.0.1:0")
	return config.Load()
}

func TestApplicationServesBlogFromProvider(t *testing.T) {
	srv := stubProvider(t)
	cfg := testConfig(t, srv.URL)

	a, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	assert.Nil(t, a.Leads())

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mental Game")

	cards := a.Blog().Carousel(context.Background())
	require.Len(t, cards, 1)
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := stubProvider(t)
	cfg := testConfig(t, srv.URL)

	a, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
