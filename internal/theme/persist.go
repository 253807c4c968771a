package theme

import (
	"context"
	"errors"

	"github.com/rcliao/space-dashboard/internal/store"
)

const (
	// NS is the cache namespace holding device settings.
	NS  = "settings"
	Key = "theme"
)

// Load returns the persisted theme, or Light when none is stored.
func Load(ctx context.Context, s store.Store) (Theme, error) {
	e, err := s.Get(ctx, Key)
	if errors.Is(err, store.ErrNotFound) {
		return Light, nil
	}
	if err != nil {
		return Light, err
	}
	return Parse(e.Value)
}

// Save persists t, replacing any stored theme.
func Save(ctx context.Context, s store.Store, t Theme) error {
	if _, err := s.Rm(ctx, store.RmParams{Key: Key}); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	_, err := s.Put(ctx, store.PutParams{NS: NS, Key: Key, Value: string(t)})
	return err
}
