package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/rcliao/space-dashboard/internal/apod"
	"github.com/rcliao/space-dashboard/internal/astronaut"
	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/logger"
	"github.com/rcliao/space-dashboard/internal/moon"
	"github.com/rcliao/space-dashboard/internal/render"
	"github.com/rcliao/space-dashboard/internal/sky"
	"github.com/rcliao/space-dashboard/internal/store"
	"github.com/rcliao/space-dashboard/internal/theme"
)

func httpTimeout() time.Duration {
	return time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
}

func newFetcher(s store.Store) *apod.Fetcher {
	return apod.NewFetcher(
		apod.NewCache(s),
		apod.NewNASAClient(cfg.NASA.BaseURL, cfg.NASA.APIKey, httpTimeout()),
		apod.NewGoogleTranslator(cfg.Translate.BaseURL, httpTimeout()),
		apod.WithLogger(logger.WithComponent("apod")),
	)
}

func newSkyClient() *sky.Client {
	return sky.NewClient(cfg.Astronomy.BaseURL, cfg.Astronomy.APIKey, httpTimeout())
}

func newMoonClient() *moon.Client {
	return moon.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Location, httpTimeout())
}

func newDailyAstronaut(s store.Store) *astronaut.Daily {
	c := astronaut.NewClient(cfg.SpaceDevs.BaseURL, cfg.SpaceDevs.AgencyID, cfg.SpaceDevs.Limit, httpTimeout())
	return astronaut.NewDaily(c, s, cfg.Astronaut.Seed, logger.WithComponent("astronaut"))
}

// loadThemes returns a theme store seeded from the persisted theme.
func loadThemes(ctx context.Context, s store.Store) *theme.Store {
	t, err := theme.Load(ctx, s)
	if err != nil {
		slog.Warn("load theme failed, using light", "error", err)
	}
	return theme.NewStore(t)
}

func newRenderer(themes *theme.Store) *render.Renderer {
	return render.New(os.Stdout, themes, render.UseColors())
}

// langFlag resolves the --lang value, falling back to $LANG.
func langFlag(value string) i18n.Language {
	if l, ok := i18n.Parse(value); ok {
		return l
	}
	if l, ok := i18n.Parse(os.Getenv("LANG")); ok {
		return l
	}
	return i18n.Default
}

var timeNow = time.Now
