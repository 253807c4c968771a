// Package api serves the dashboard's JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/model"
	"github.com/rcliao/space-dashboard/internal/store"
	"github.com/rcliao/space-dashboard/internal/theme"
)

// ContentService returns daily content.
type ContentService interface {
	Fetch(ctx context.Context, date string, lang i18n.Language) (*model.DailyContent, error)
	Featured(ctx context.Context, lang i18n.Language) (*model.DailyContent, error)
}

// SkyCharter renders star charts.
type SkyCharter interface {
	StarChart(ctx context.Context, lat, lon float64, date string) (*string, error)
}

// MoonReader reports the moon phase.
type MoonReader interface {
	Current(ctx context.Context, lang i18n.Language) (*model.MoonPhase, error)
}

// AstronautPicker returns the astronaut of the day.
type AstronautPicker interface {
	Today(ctx context.Context) (*model.Astronaut, error)
}

// Deps are the services behind the routes. Store is used to persist the
// theme and may be nil.
type Deps struct {
	Content   ContentService
	Sky       SkyCharter
	Moon      MoonReader
	Astronaut AstronautPicker
	Themes    *theme.Store
	Store     store.Store
	Logger    *slog.Logger
	Now       func() time.Time
}

type Server struct {
	deps   Deps
	engine *gin.Engine
}

// NewServer builds the router. mode is a gin mode: debug, release or test.
func NewServer(deps Deps, mode string, allowedOrigins []string) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	gin.SetMode(mode)

	s := &Server{deps: deps, engine: gin.New()}
	s.engine.Use(Recovery(deps.Logger), RequestID(), Logger(deps.Logger), CORS(allowedOrigins))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	api.GET("/sky", s.sky)
	api.GET("/apod", s.apod)
	api.GET("/apod/today", s.apodToday)
	api.GET("/calendar", s.calendar)
	api.GET("/moon", s.moon)
	api.GET("/astronaut", s.astronaut)
	api.GET("/theme", s.getTheme)
	api.PUT("/theme", s.putTheme)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down within
// shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.deps.Logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}
