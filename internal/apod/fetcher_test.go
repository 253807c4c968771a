package apod

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/space-dashboard/internal/calendar"
	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/logger"
	"github.com/rcliao/space-dashboard/internal/model"
	"github.com/rcliao/space-dashboard/internal/store"
)

type fakeNASA struct {
	server   *httptest.Server
	requests atomic.Int32
	entries  map[string]model.DailyContent
	latest   model.DailyContent
	body     string
}

func newFakeNASA(t *testing.T) *fakeNASA {
	t.Helper()
	f := &fakeNASA{entries: map[string]model.DailyContent{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		if r.URL.Path != "/planetary/apod" || r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if f.body != "" {
			w.Write([]byte(f.body))
			return
		}
		date := r.URL.Query().Get("date")
		if date == "" {
			json.NewEncoder(w).Encode(f.latest)
			return
		}
		entry, ok := f.entries[date]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":400,"msg":"No data available for date: ` + date + `"}`))
			return
		}
		json.NewEncoder(w).Encode(entry)
	}))
	t.Cleanup(f.server.Close)
	return f
}

type fakeTranslate struct {
	server   *httptest.Server
	requests atomic.Int32
	fail     func(q string) bool
}

func newFakeTranslate(t *testing.T) *fakeTranslate {
	t.Helper()
	f := &fakeTranslate{fail: func(string) bool { return false }}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		q := r.URL.Query()
		if f.fail(q.Get("q")) {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		resp := []any{
			[]any{[]any{"[" + q.Get("tl") + "] " + q.Get("q"), q.Get("q"), nil, nil}},
			nil,
			"en",
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestFetcher(t *testing.T, nasa *fakeNASA, tr *fakeTranslate, now time.Time) (*Fetcher, *Cache) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cache := NewCache(s)
	f := NewFetcher(cache,
		NewNASAClient(nasa.server.URL, "test-key", 5*time.Second),
		NewGoogleTranslator(tr.server.URL, 5*time.Second),
		WithClock(func() time.Time { return now }),
		WithLogger(logger.Discard()),
	)
	return f, cache
}

var andromeda = model.DailyContent{
	Date:        "2024-05-01",
	Title:       "Andromeda Galaxy",
	Explanation: "The nearest large spiral galaxy.",
	MediaURL:    "https://apod.nasa.gov/andromeda.jpg",
	MediaType:   model.MediaImage,
}

func TestFetch_RoundTripUsesCache(t *testing.T) {
	nasa := newFakeNASA(t)
	nasa.entries["2024-05-01"] = andromeda
	tr := newFakeTranslate(t)
	f, _ := newTestFetcher(t, nasa, tr, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := f.Fetch(ctx, "2024-05-01", i18n.PT)
	require.NoError(t, err)
	assert.Equal(t, "[pt] Andromeda Galaxy", first.Title)
	assert.Equal(t, "[pt] The nearest large spiral galaxy.", first.Explanation)
	assert.Equal(t, andromeda.MediaURL, first.MediaURL)
	assert.Equal(t, int32(1), nasa.requests.Load())
	assert.Equal(t, int32(2), tr.requests.Load())

	second, err := f.Fetch(ctx, "2024-05-01", i18n.PT)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), nasa.requests.Load())
	assert.Equal(t, int32(2), tr.requests.Load())
}

func TestFetch_EnglishSkipsTranslation(t *testing.T) {
	nasa := newFakeNASA(t)
	nasa.entries["2024-05-01"] = andromeda
	tr := newFakeTranslate(t)
	f, cache := newTestFetcher(t, nasa, tr, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	got, err := f.Fetch(context.Background(), "2024-05-01", i18n.EN)
	require.NoError(t, err)
	assert.Equal(t, andromeda, *got)
	assert.Zero(t, tr.requests.Load())

	cached, ok, err := cache.Get(context.Background(), "2024-05-01", i18n.EN)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, andromeda, *cached)
}

func TestFetch_TranslationFailureKeepsEnglish(t *testing.T) {
	nasa := newFakeNASA(t)
	nasa.entries["2024-05-01"] = andromeda
	tr := newFakeTranslate(t)
	tr.fail = func(q string) bool { return strings.Contains(q, "spiral") }
	f, _ := newTestFetcher(t, nasa, tr, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	got, err := f.Fetch(context.Background(), "2024-05-01", i18n.ES)
	require.NoError(t, err)
	assert.Equal(t, "[es] Andromeda Galaxy", got.Title)
	assert.Equal(t, andromeda.Explanation, got.Explanation)
}

func TestFetch_LongExplanationIsChunked(t *testing.T) {
	long := strings.Repeat("Stars form in dense clouds of gas. ", 80)
	nasa := newFakeNASA(t)
	nasa.entries["2024-05-01"] = model.DailyContent{Date: "2024-05-01", Title: "Nursery", Explanation: long}
	tr := newFakeTranslate(t)
	f, _ := newTestFetcher(t, nasa, tr, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	got, err := f.Fetch(context.Background(), "2024-05-01", i18n.JA)
	require.NoError(t, err)
	assert.Greater(t, tr.requests.Load(), int32(2))
	assert.True(t, strings.HasPrefix(got.Explanation, "[ja] Stars form"))
}

func TestFetch_TodayFallsBackToLatest(t *testing.T) {
	nasa := newFakeNASA(t)
	nasa.latest = model.DailyContent{Date: "2024-04-30", Title: "Orion", Explanation: "Hunter.", MediaType: model.MediaImage}
	tr := newFakeTranslate(t)
	// 03:00 UTC is still the previous publishing day.
	f, cache := newTestFetcher(t, nasa, tr, time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC))
	require.Equal(t, "2024-05-01", f.ProviderToday())

	got, err := f.Fetch(context.Background(), "2024-05-01", i18n.EN)
	require.NoError(t, err)
	assert.Equal(t, "Orion", got.Title)
	assert.Equal(t, int32(2), nasa.requests.Load())

	_, ok, _ := cache.Get(context.Background(), "2024-05-01", i18n.EN)
	assert.False(t, ok, "fallback content is not cached under the requested date")
	_, ok, _ = cache.Get(context.Background(), "2024-04-30", i18n.EN)
	assert.True(t, ok)

	nasa.entries["2024-05-01"] = andromeda
	published, err := f.Fetch(context.Background(), "2024-05-01", i18n.EN)
	require.NoError(t, err)
	assert.Equal(t, andromeda, *published)
	assert.Equal(t, int32(3), nasa.requests.Load())

	again, err := f.Fetch(context.Background(), "2024-05-01", i18n.EN)
	require.NoError(t, err)
	assert.Equal(t, published, again)
	assert.Equal(t, int32(3), nasa.requests.Load())
}

func TestFetch_LocalTodayAheadOfProviderFallsBack(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	nasa := newFakeNASA(t)
	nasa.entries["2024-05-02"] = model.DailyContent{Date: "2024-05-02", Title: "Orion", Explanation: "Hunter."}
	nasa.latest = nasa.entries["2024-05-02"]
	// 09:00 in Tokyo is 00:00 UTC, still May 2 for the provider.
	now := time.Date(2024, 5, 3, 9, 0, 0, 0, tokyo)
	f, _ := newTestFetcher(t, nasa, newFakeTranslate(t), now)
	require.Equal(t, "2024-05-02", f.ProviderToday())

	cells := calendar.BuildGrid(2024, 4, now)
	var today calendar.DayCell
	for _, c := range cells {
		if c.IsToday {
			today = c
		}
	}
	require.Equal(t, "2024-05-03", today.DateKey)
	require.False(t, today.IsFuture)

	got, err := f.Fetch(context.Background(), today.DateKey, i18n.EN)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", got.Date)
	assert.Equal(t, int32(2), nasa.requests.Load())
}

func TestFetch_TranslatesFieldsConcurrently(t *testing.T) {
	nasa := newFakeNASA(t)
	nasa.entries["2024-05-01"] = andromeda

	var arrived atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if arrived.Add(1) == 2 {
			close(release)
		}
		select {
		case <-release:
		case <-time.After(2 * time.Second):
			w.WriteHeader(http.StatusGatewayTimeout)
			return
		}
		q := r.URL.Query()
		json.NewEncoder(w).Encode([]any{[]any{[]any{"[" + q.Get("tl") + "] " + q.Get("q"), q.Get("q")}}})
	}))
	t.Cleanup(srv.Close)

	f, _ := newTestFetcher(t, nasa, newFakeTranslate(t), time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	f.translator = NewGoogleTranslator(srv.URL, 5*time.Second)

	got, err := f.Fetch(context.Background(), "2024-05-01", i18n.PT)
	require.NoError(t, err)
	assert.Equal(t, int32(2), arrived.Load())
	assert.Equal(t, "[pt] Andromeda Galaxy", got.Title)
	assert.Equal(t, "[pt] The nearest large spiral galaxy.", got.Explanation)
}

func TestFetch_PastDateDoesNotFallBack(t *testing.T) {
	nasa := newFakeNASA(t)
	tr := newFakeTranslate(t)
	f, _ := newTestFetcher(t, nasa, tr, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	_, err := f.Fetch(context.Background(), "2024-05-01", i18n.EN)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusBadRequest, fe.StatusCode)
	assert.Contains(t, fe.Error(), "No data available")
	assert.Equal(t, int32(1), nasa.requests.Load())
}

func TestFetch_ParseError(t *testing.T) {
	nasa := newFakeNASA(t)
	nasa.body = "<html>maintenance</html>"
	f, _ := newTestFetcher(t, nasa, newFakeTranslate(t), time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	_, err := f.Fetch(context.Background(), "2024-05-01", i18n.EN)
	assert.ErrorIs(t, err, ErrParse)
	assert.NotErrorIs(t, err, ErrNetwork)
}

func TestFetch_NetworkError(t *testing.T) {
	nasa := newFakeNASA(t)
	f, _ := newTestFetcher(t, nasa, newFakeTranslate(t), time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	nasa.server.Close()

	_, err := f.Fetch(context.Background(), "2024-05-01", i18n.EN)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestFetch_InvalidDate(t *testing.T) {
	nasa := newFakeNASA(t)
	f, _ := newTestFetcher(t, nasa, newFakeTranslate(t), time.Now())

	_, err := f.Fetch(context.Background(), "01/05/2024", i18n.EN)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Zero(t, nasa.requests.Load())
}

func TestFeatured(t *testing.T) {
	nasa := newFakeNASA(t)
	nasa.entries["2024-05-01"] = andromeda
	tr := newFakeTranslate(t)
	f, cache := newTestFetcher(t, nasa, tr, time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC))
	ctx := context.Background()

	pt, err := f.Featured(ctx, i18n.PT)
	require.NoError(t, err)
	assert.Equal(t, "[pt] Andromeda Galaxy", pt.Title)

	base, ok, err := cache.GetFeatured(ctx, "2024-05-01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, andromeda, *base)

	en, err := f.Featured(ctx, i18n.EN)
	require.NoError(t, err)
	assert.Equal(t, andromeda.Title, en.Title)

	again, err := f.Featured(ctx, i18n.PT)
	require.NoError(t, err)
	assert.Equal(t, pt, again)
	assert.Equal(t, int32(1), nasa.requests.Load())
	assert.Equal(t, int32(2), tr.requests.Load())
}

func TestFeatured_FallsBackToLatest(t *testing.T) {
	nasa := newFakeNASA(t)
	nasa.latest = andromeda
	f, cache := newTestFetcher(t, nasa, newFakeTranslate(t), time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC))

	got, err := f.Featured(context.Background(), i18n.EN)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", got.Date)

	_, ok, _ := cache.GetFeatured(context.Background(), "2024-05-02")
	assert.True(t, ok)
}
