// Package apod fetches, translates, and caches the astronomy picture of the day.
package apod

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/metrics"
	"github.com/rcliao/space-dashboard/internal/model"
)

const dateLayout = time.DateOnly

// PublishOffset shifts UTC to the provider's publishing day. The provider
// rolls over on US Eastern time.
const PublishOffset = 5 * time.Hour

// Fetcher returns daily content for a (date, language), answering from the
// cache when possible.
type Fetcher struct {
	cache      *Cache
	provider   Provider
	translator Translator
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

func NewFetcher(cache *Cache, provider Provider, translator Translator, opts ...Option) *Fetcher {
	f := &Fetcher{
		cache:      cache,
		provider:   provider,
		translator: translator,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// ProviderToday is the provider's current publishing date.
func (f *Fetcher) ProviderToday() string {
	return f.now().UTC().Add(-PublishOffset).Format(dateLayout)
}

// unpublished reports whether date lies between the provider's publishing day
// and the caller's local day, inclusive. Such dates are "today" for someone
// and may not have an entry yet.
func (f *Fetcher) unpublished(date string) bool {
	lo, hi := f.ProviderToday(), f.now().Format(dateLayout)
	if hi < lo {
		lo, hi = hi, lo
	}
	return date >= lo && date <= hi
}

// Fetch returns the content of date in lang. A cache hit performs no network
// calls. Translation failures keep the English text of the affected field.
func (f *Fetcher) Fetch(ctx context.Context, date string, lang i18n.Language) (*model.DailyContent, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if !i18n.Valid(lang) {
		lang = i18n.Default
	}

	if c, ok := f.cached(ctx, date, lang); ok {
		return c, nil
	}

	content, err := f.provider.Content(ctx, date)
	if err != nil && f.unpublished(date) {
		f.logger.Warn("today's entry unavailable, using latest", "date", date, "error", err)
		content, err = f.provider.Latest(ctx)
	}
	if err != nil {
		return nil, err
	}

	return f.localize(ctx, content, lang), nil
}

// Featured returns the entry for the provider's current day in lang. The
// untranslated record is cached by date; localized copies share the Fetch
// cache.
func (f *Fetcher) Featured(ctx context.Context, lang i18n.Language) (*model.DailyContent, error) {
	if !i18n.Valid(lang) {
		lang = i18n.Default
	}
	date := f.ProviderToday()

	base, ok, err := f.cache.GetFeatured(ctx, date)
	if err != nil {
		f.logger.Warn("featured cache read failed", "date", date, "error", err)
	}
	if !ok {
		base, err = f.provider.Content(ctx, date)
		if err != nil {
			f.logger.Warn("featured entry unavailable, using latest", "date", date, "error", err)
			base, err = f.provider.Latest(ctx)
		}
		if err != nil {
			return nil, err
		}
		if err := f.cache.PutFeatured(ctx, date, base); err != nil {
			f.logger.Warn("featured cache write failed", "date", date, "error", err)
		}
	}

	if c, ok := f.cached(ctx, base.Date, lang); ok {
		return c, nil
	}
	return f.localize(ctx, base, lang), nil
}

func (f *Fetcher) cached(ctx context.Context, date string, lang i18n.Language) (*model.DailyContent, bool) {
	c, ok, err := f.cache.Get(ctx, date, lang)
	if err != nil {
		f.logger.Warn("cache read failed", "date", date, "lang", lang, "error", err)
		return nil, false
	}
	return c, ok
}

// localize translates content into lang and caches it under the content's
// own date. After a latest fallback that is not the requested date, so the
// requested (date, lang) stays uncached and is looked up again until the
// provider publishes it; the published entry is then cached by Fetch.
func (f *Fetcher) localize(ctx context.Context, content *model.DailyContent, lang i18n.Language) *model.DailyContent {
	out := *content
	if lang != i18n.EN {
		out.Title, out.Explanation = f.translatePair(ctx, content.Title, content.Explanation, lang)
	}

	if err := f.cache.Put(ctx, out.Date, lang, &out); err != nil {
		f.logger.Warn("cache write failed", "date", out.Date, "lang", lang, "error", err)
	}
	return &out
}

func (f *Fetcher) translatePair(ctx context.Context, title, explanation string, lang i18n.Language) (string, string) {
	tTitle, tExp := title, explanation

	var g errgroup.Group
	g.Go(func() error {
		if t, ok := f.translateField(ctx, "title", title, lang); ok {
			tTitle = t
		}
		return nil
	})
	g.Go(func() error {
		if t, ok := f.translateField(ctx, "explanation", explanation, lang); ok {
			tExp = t
		}
		return nil
	})
	_ = g.Wait()

	return tTitle, tExp
}

func (f *Fetcher) translateField(ctx context.Context, field, text string, lang i18n.Language) (string, bool) {
	t, err := f.translator.Translate(ctx, text, lang)
	if err != nil || t == "" {
		metrics.TranslationFallbacks.WithLabelValues(string(lang), field).Inc()
		f.logger.Warn("translation failed, keeping english", "field", field, "lang", lang, "error", err)
		return "", false
	}
	return t, true
}
