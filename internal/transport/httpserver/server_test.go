package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ClimbCoach/internal/config"
	"ClimbCoach/internal/domain"
	"ClimbCoach/internal/ports"
	"ClimbCoach/internal/usecase"
)

type fakeBlog struct {
	listing  usecase.Listing
	category usecase.Listing
	cards    []usecase.Card
	posts    map[string]usecase.PostView
	filters  []domain.Category
}

func (f *fakeBlog) Listing(context.Context, int) usecase.Listing { return f.listing }

func (f *fakeBlog) CategoryListing(context.Context, string, int) usecase.Listing { return f.category }

func (f *fakeBlog) Carousel(context.Context) []usecase.Card { return f.cards }

func (f *fakeBlog) Post(_ context.Context, slug string) (usecase.PostView, bool) {
	p, ok := f.posts[slug]
	return p, ok
}

func (f *fakeBlog) FilterCategories(context.Context) []domain.Category { return f.filters }

type recordingSubmitter struct {
	mu   sync.Mutex
	err  error
	sent []ports.FormFields
}

func (r *recordingSubmitter) Submit(_ context.Context, fields ports.FormFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, fields)
	return r.err
}

func newTestServer(t *testing.T, blog *fakeBlog, sub *recordingSubmitter) http.Handler {
	t.Helper()
	forms := usecase.NewForms(usecase.FormsDeps{Submitter: sub}, config.FormsConfig{CountryCode: "1"})
	e, err := New(Deps{Blog: blog, Forms: forms})
	require.NoError(t, err)
	return e
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleCard() usecase.Card {
	return usecase.Card{
		ID: 1, Slug: "mental-game", URL: "/blog/mental-game", Title: "Mental Game",
		Excerpt: "Think & climb", Date: "January 5, 2025", ImageURL: "/placeholder-blog.jpg",
		Categories: []domain.Category{{ID: 3, Name: "Training", Slug: "training"}},
	}
}

func TestStaticPages(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeBlog{}, &recordingSubmitter{})
	for path, want := range map[string]string{
		"/about":   "About",
		"/method":  "The Method",
		"/pricing": "Pricing",
	} {
		rec := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "<title>"+want+" | Climb.Coach</title>")
	}

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHomeRendersCarousel(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeBlog{cards: []usecase.Card{sampleCard()}}, &recordingSubmitter{})
	rec := do(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/blog/mental-game"`)
	assert.Contains(t, rec.Body.String(), "Think &amp; climb")
}

func TestBlogIndexStates(t *testing.T) {
	t.Parallel()

	failed := newTestServer(t, &fakeBlog{listing: usecase.Listing{Page: 1, Failed: true}}, &recordingSubmitter{})
	rec := do(t, failed, http.MethodGet, "/blog", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store, no-cache, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "Unable to load posts right now.")

	empty := newTestServer(t, &fakeBlog{listing: usecase.Listing{Page: 1, TotalPages: 1}}, &recordingSubmitter{})
	rec = do(t, empty, http.MethodGet, "/blog", nil)
	assert.Contains(t, rec.Body.String(), "No posts yet.")
	assert.NotContains(t, rec.Body.String(), "Unable to load")

	full := newTestServer(t, &fakeBlog{
		listing: usecase.Listing{Cards: []usecase.Card{sampleCard()}, Page: 2, TotalPages: 3},
		filters: []domain.Category{{ID: 3, Name: "Training", Slug: "training"}},
	}, &recordingSubmitter{})
	rec = do(t, full, http.MethodGet, "/blog?page=2", nil)
	body := rec.Body.String()
	assert.Contains(t, body, "Mental Game")
	assert.Contains(t, body, `href="/blog/category/training"`)
	assert.Contains(t, body, `href="/blog?page=3" rel="next"`)
	assert.Contains(t, body, `href="/blog" rel="prev"`)
}

func TestBlogCategoryPage(t *testing.T) {
	t.Parallel()

	cat := domain.Category{ID: 3, Name: "Training", Slug: "training"}
	h := newTestServer(t, &fakeBlog{
		category: usecase.Listing{Cards: []usecase.Card{sampleCard()}, Page: 1, TotalPages: 1, Category: &cat},
	}, &recordingSubmitter{})

	rec := do(t, h, http.MethodGet, "/blog/category/training", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Training</h1>")
	assert.Equal(t, "no-store, no-cache, must-revalidate", rec.Header().Get("Cache-Control"))
}

func TestBlogPost(t *testing.T) {
	t.Parallel()

	view := usecase.PostView{Card: sampleCard(), Content: "<p>Body</p>", Author: &domain.Author{ID: 2, Name: "Sam"}}
	h := newTestServer(t, &fakeBlog{posts: map[string]usecase.PostView{"mental-game": view}}, &recordingSubmitter{})

	rec := do(t, h, http.MethodGet, "/blog/mental-game", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<p>Body</p>")
	assert.Contains(t, body, "by Sam")
	assert.Contains(t, body, "https://www.facebook.com/sharer/sharer.php?u=http%3A%2F%2Fexample.com%2Fblog%2Fmental-game")

	rec = do(t, h, http.MethodGet, "/blog/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "We couldn&#39;t find that post.")
}

func TestUnknownRouteIs404(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeBlog{}, &recordingSubmitter{})
	rec := do(t, h, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")
}

func TestContactForm(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{}
	h := newTestServer(t, &fakeBlog{}, sub)

	rec := do(t, h, http.MethodPost, "/contact", url.Values{"name": {"Alex"}, "email": {"bad"}, "message": {"Hi"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email must be a valid email address")
	assert.Contains(t, rec.Body.String(), `value="Alex"`)
	assert.Empty(t, sub.sent)

	rec = do(t, h, http.MethodPost, "/contact", url.Values{"name": {"Alex"}, "email": {"alex@example.com"}, "message": {"Hi"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thanks!")
	require.Len(t, sub.sent, 1)
	assert.Equal(t, "Coach Contact Form", sub.sent[0].FormName)

	sub.err = errors.New("down")
	rec = do(t, h, http.MethodPost, "/contact", url.Values{"name": {"Alex"}, "email": {"alex@example.com"}, "message": {"Hi again"}})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hi again")
}

func TestNewsletterSteps(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{}
	h := newTestServer(t, &fakeBlog{}, sub)

	rec := do(t, h, http.MethodGet, "/newsletter", nil)
	assert.Contains(t, rec.Body.String(), `name="step" value="email"`)

	rec = do(t, h, http.MethodPost, "/newsletter", url.Values{"step": {"email"}, "action": {"email"}, "email": {"climber@example.com"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="step" value="details"`)
	assert.Empty(t, sub.sent)

	details := url.Values{
		"step": {"details"}, "action": {"details"}, "email": {"climber@example.com"},
		"first_name": {"Alex"}, "last_name": {""}, "phone": {"555-1234"},
	}
	rec = do(t, h, http.MethodPost, "/newsletter", details)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, sub.sent, "missing last name never reaches the endpoint")

	details.Set("last_name", "Honnold")
	rec = do(t, h, http.MethodPost, "/newsletter", details)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You&#39;re subscribed.")
	require.Len(t, sub.sent, 1)
	assert.Equal(t, "+15551234", sub.sent[0].Get("phone"))
}

func TestNewsletterFailureKeepsInput(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{err: errors.New("500")}
	h := newTestServer(t, &fakeBlog{}, sub)

	rec := do(t, h, http.MethodPost, "/newsletter", url.Values{
		"step": {"details"}, "action": {"details"}, "email": {"climber@example.com"},
		"first_name": {"Alex"}, "last_name": {"Honnold"},
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="step" value="error"`)
	assert.Contains(t, body, `value="Honnold"`)
	assert.Contains(t, body, "Try again")

	rec = do(t, h, http.MethodPost, "/newsletter", url.Values{
		"step": {"error"}, "action": {"back"}, "email": {"climber@example.com"},
	})
	assert.Contains(t, rec.Body.String(), `name="step" value="email"`)
	assert.Contains(t, rec.Body.String(), `value="climber@example.com"`)
}
