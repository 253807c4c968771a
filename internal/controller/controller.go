// Package controller drives the calendar month view: navigation, day
// activation, and the fetch lifecycle of the selected day.
package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rcliao/space-dashboard/internal/calendar"
	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/model"
)

// State is the controller's fetch state.
type State int

const (
	Idle State = iota
	Loading
	ContentReady
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case ContentReady:
		return "content_ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ContentFetcher returns daily content for a date and language.
type ContentFetcher interface {
	Fetch(ctx context.Context, date string, lang i18n.Language) (*model.DailyContent, error)
}

// Display receives fetch outcomes. Calls happen outside the controller lock.
type Display interface {
	ShowContent(c *model.DailyContent)
	ShowError(err error)
}

// Controller is safe for concurrent use. At most one fetch is in flight.
type Controller struct {
	mu       sync.Mutex
	cursor   calendar.Cursor
	state    State
	selected string
	content  *model.DailyContent
	err      error
	lang     i18n.Language

	fetcher ContentFetcher
	display Display
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New returns an Idle controller positioned on the current month.
func New(fetcher ContentFetcher, display Display, lang i18n.Language, opts ...Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		display: display,
		lang:    lang,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	c.cursor = calendar.CursorFor(c.now())
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Cursor() calendar.Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Selected returns the date of the last activated day, if any.
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Content returns the displayed content while in ContentReady.
func (c *Controller) Content() *model.DailyContent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// Err returns the failure shown while in Error.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) Language() i18n.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

// SetLanguage changes the language used by subsequent activations.
func (c *Controller) SetLanguage(l i18n.Language) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang = l
}

// Grid returns the 42 cells of the month under the cursor.
func (c *Controller) Grid() []calendar.DayCell {
	c.mu.Lock()
	cur := c.cursor
	c.mu.Unlock()
	return calendar.BuildGrid(cur.Year, cur.Month, c.now())
}

func (c *Controller) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor.Prev()
}

func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor.Next()
}

func (c *Controller) SetMonth(month int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.SetMonth(month)
}

func (c *Controller) SetYear(year int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.SetYear(year, c.now())
}

// Activate starts a fetch for cell and blocks until it resolves. It returns
// false without doing anything unless the controller is Idle and cell is a
// numbered, non-future day.
func (c *Controller) Activate(ctx context.Context, cell calendar.DayCell) bool {
	c.mu.Lock()
	if c.state != Idle || cell.Empty() || c.isFuture(cell) {
		c.mu.Unlock()
		return false
	}
	c.state = Loading
	c.selected = cell.DateKey
	c.content = nil
	c.err = nil
	lang := c.lang
	c.mu.Unlock()

	c.logger.Debug("fetching day", "date", cell.DateKey, "lang", lang)
	content, err := c.fetcher.Fetch(ctx, cell.DateKey, lang)

	c.mu.Lock()
	if !c.cursor.Contains(cell.DateKey) {
		c.state = Idle
		c.mu.Unlock()
		c.logger.Debug("discarding result for month no longer shown", "date", cell.DateKey)
		return true
	}
	if err != nil {
		c.state = Error
		c.err = err
	} else {
		c.state = ContentReady
		c.content = content
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("day fetch failed", "date", cell.DateKey, "error", err)
		c.display.ShowError(err)
	} else {
		c.display.ShowContent(content)
	}
	return true
}

// ActivateDay activates the numbered day of the month under the cursor.
func (c *Controller) ActivateDay(ctx context.Context, day int) bool {
	for _, cell := range c.Grid() {
		if cell.Day == day {
			return c.Activate(ctx, cell)
		}
	}
	return false
}

// Acknowledge dismisses an error and returns to Idle.
func (c *Controller) Acknowledge() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Error {
		return false
	}
	c.state = Idle
	c.err = nil
	return true
}

// Close dismisses displayed content and returns to Idle.
func (c *Controller) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ContentReady {
		return false
	}
	c.state = Idle
	c.content = nil
	return true
}

// isFuture re-checks the cell against the clock so stale grids cannot
// trigger fetches for days that have not happened yet.
func (c *Controller) isFuture(cell calendar.DayCell) bool {
	if cell.IsFuture {
		return true
	}
	future, err := calendar.IsFutureDate(cell.DateKey, c.now())
	return err != nil || future
}
