// Package astronaut picks an astronaut of the day from The Space Devs
// launch library.
package astronaut

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rcliao/space-dashboard/internal/metrics"
	"github.com/rcliao/space-dashboard/internal/model"
	"github.com/rcliao/space-dashboard/internal/store"
)

// NS is the cache namespace for daily picks.
const NS = "astronaut"

// ErrNoAstronauts is returned when the provider lists no candidates.
var ErrNoAstronauts = errors.New("no astronauts found")

// Key is the cache key of the pick for date.
func Key(date string) string {
	return "astronaut_of_the_day_" + date
}

type Client struct {
	client   *resty.Client
	agencyID int
	limit    int
}

func NewClient(baseURL string, agencyID, limit int, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{client: c, agencyID: agencyID, limit: limit}
}

type listResponse struct {
	Count   int               `json:"count"`
	Results []model.Astronaut `json:"results"`
}

// List returns the candidate astronauts of the configured agency.
func (c *Client) List(ctx context.Context) ([]model.Astronaut, error) {
	list, err := c.list(ctx)
	metrics.ObserveUpstream("spacedevs", err)
	return list, err
}

func (c *Client) list(ctx context.Context) ([]model.Astronaut, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"agency_ids": strconv.Itoa(c.agencyID),
			"limit":      strconv.Itoa(c.limit),
			"format":     "json",
		}).
		Get("/2.2.0/astronaut/")
	if err != nil {
		return nil, fmt.Errorf("astronaut request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("astronaut status %d: %s", resp.StatusCode(), resp.String())
	}

	var lr listResponse
	if err := json.Unmarshal(resp.Body(), &lr); err != nil {
		return nil, fmt.Errorf("decode astronauts: %w", err)
	}
	return lr.Results, nil
}

// Pick deterministically selects one candidate for date. The seed varies the
// choice between installations.
func Pick(date string, candidates []model.Astronaut, seed string) (model.Astronaut, error) {
	if len(candidates) == 0 {
		return model.Astronaut{}, ErrNoAstronauts
	}
	h := fnv.New32a()
	h.Write([]byte(date))
	h.Write([]byte(seed))
	return candidates[h.Sum32()%uint32(len(candidates))], nil
}

// Lister returns astronaut candidates.
type Lister interface {
	List(ctx context.Context) ([]model.Astronaut, error)
}

// Daily caches one pick per UTC day.
type Daily struct {
	lister Lister
	store  store.Store
	seed   string
	now    func() time.Time
	logger *slog.Logger
}

func NewDaily(lister Lister, s store.Store, seed string, logger *slog.Logger) *Daily {
	return &Daily{lister: lister, store: s, seed: seed, now: time.Now, logger: logger}
}

// SetClock overrides the time source.
func (d *Daily) SetClock(now func() time.Time) { d.now = now }

// Today returns the astronaut of the current UTC day.
func (d *Daily) Today(ctx context.Context) (*model.Astronaut, error) {
	date := d.now().UTC().Format(time.DateOnly)
	key := Key(date)

	if e, err := d.store.Get(ctx, key); err == nil {
		var a model.Astronaut
		if err := json.Unmarshal([]byte(e.Value), &a); err == nil {
			metrics.CacheHits.WithLabelValues(NS).Inc()
			return &a, nil
		}
		d.logger.Warn("discarding unreadable astronaut cache entry", "key", key)
	} else if !errors.Is(err, store.ErrNotFound) {
		d.logger.Warn("astronaut cache read failed", "key", key, "error", err)
	}
	metrics.CacheMisses.WithLabelValues(NS).Inc()

	candidates, err := d.lister.List(ctx)
	if err != nil {
		return nil, err
	}
	a, err := Pick(date, candidates, d.seed)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode astronaut: %w", err)
	}
	e, err := d.store.Put(ctx, store.PutParams{NS: NS, Key: key, Value: string(data)})
	if err != nil {
		d.logger.Warn("astronaut cache write failed", "key", key, "error", err)
		return &a, nil
	}
	if e.Value != string(data) {
		// Another writer stored the pick first.
		var stored model.Astronaut
		if json.Unmarshal([]byte(e.Value), &stored) == nil {
			return &stored, nil
		}
	}
	return &a, nil
}
