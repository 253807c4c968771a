package apod

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/metrics"
	"github.com/rcliao/space-dashboard/internal/model"
	"github.com/rcliao/space-dashboard/internal/store"
)

// Cache namespaces.
const (
	NS         = "nasa"
	FeaturedNS = "nasa_today"
)

// Key is the cache key for content of date in lang.
func Key(date string, lang i18n.Language) string {
	return "nasa_" + date + "_" + string(lang)
}

// FeaturedKey is the cache key for the untranslated featured record of date.
func FeaturedKey(date string) string {
	return "nasa_today_" + date
}

// Cache stores DailyContent in the local store. Entries never expire and the
// first write for a key wins.
type Cache struct {
	store store.Store
}

func NewCache(s store.Store) *Cache {
	return &Cache{store: s}
}

// Get returns the cached content for (date, lang). ok is false on a miss.
func (c *Cache) Get(ctx context.Context, date string, lang i18n.Language) (*model.DailyContent, bool, error) {
	return c.load(ctx, NS, Key(date, lang))
}

// Put stores content for (date, lang) unless an entry already exists.
func (c *Cache) Put(ctx context.Context, date string, lang i18n.Language, content *model.DailyContent) error {
	return c.save(ctx, NS, Key(date, lang), content)
}

// GetFeatured returns the untranslated featured record of date.
func (c *Cache) GetFeatured(ctx context.Context, date string) (*model.DailyContent, bool, error) {
	return c.load(ctx, FeaturedNS, FeaturedKey(date))
}

// PutFeatured stores the untranslated featured record of date.
func (c *Cache) PutFeatured(ctx context.Context, date string, content *model.DailyContent) error {
	return c.save(ctx, FeaturedNS, FeaturedKey(date), content)
}

func (c *Cache) load(ctx context.Context, ns, key string) (*model.DailyContent, bool, error) {
	e, err := c.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		metrics.CacheMisses.WithLabelValues(ns).Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var content model.DailyContent
	if err := json.Unmarshal([]byte(e.Value), &content); err != nil {
		return nil, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	metrics.CacheHits.WithLabelValues(ns).Inc()
	return &content, true, nil
}

func (c *Cache) save(ctx context.Context, ns, key string, content *model.DailyContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = c.store.Put(ctx, store.PutParams{NS: ns, Key: key, Value: string(data)})
	return err
}
