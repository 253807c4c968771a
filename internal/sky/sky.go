// Package sky proxies star-chart requests to astronomyapi.com so the API key
// stays on the server.
package sky

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rcliao/space-dashboard/internal/metrics"
)

// Constellation is the chart the dashboard renders.
const Constellation = "ori"

// ErrLocationUnavailable is returned when no observer coordinates are known.
var ErrLocationUnavailable = errors.New("observer location unavailable: latitude and longitude are required")

type Client struct {
	client *resty.Client
}

// NewClient creates a client for baseURL authorized with apiKey. The header
// value is sent as configured.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{client: c}
}

type observer struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Date      string  `json:"date"`
}

type view struct {
	Type       string         `json:"type"`
	Parameters viewParameters `json:"parameters"`
}

type viewParameters struct {
	Constellation string `json:"constellation"`
}

type starChartRequest struct {
	Style    string   `json:"style"`
	Observer observer `json:"observer"`
	View     view     `json:"view"`
}

type starChartResponse struct {
	Data struct {
		ImageURL string `json:"imageUrl"`
	} `json:"data"`
}

// StarChart returns the chart image URL for the observer, or nil when the
// provider answered 200 without one. Any other status is an error.
func (c *Client) StarChart(ctx context.Context, lat, lon float64, date string) (*string, error) {
	url, err := c.starChart(ctx, lat, lon, date)
	metrics.ObserveUpstream("astronomy", err)
	return url, err
}

func (c *Client) starChart(ctx context.Context, lat, lon float64, date string) (*string, error) {
	body := starChartRequest{
		Style:    "default",
		Observer: observer{Latitude: lat, Longitude: lon, Date: date},
		View:     view{Type: "constellation", Parameters: viewParameters{Constellation: Constellation}},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&body).
		Post("/api/v2/studio/star-chart")
	if err != nil {
		return nil, fmt.Errorf("star chart request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("star chart status %d: %s", resp.StatusCode(), resp.String())
	}

	var sr starChartResponse
	if err := json.Unmarshal(resp.Body(), &sr); err != nil {
		return nil, fmt.Errorf("decode star chart: %w", err)
	}
	if sr.Data.ImageURL == "" {
		return nil, nil
	}
	return &sr.Data.ImageURL, nil
}

// ParseCoordinates parses query-string coordinates. Missing values yield
// ErrLocationUnavailable.
func ParseCoordinates(latStr, lonStr string) (lat, lon float64, err error) {
	latStr, lonStr = strings.TrimSpace(latStr), strings.TrimSpace(lonStr)
	if latStr == "" || lonStr == "" {
		return 0, 0, ErrLocationUnavailable
	}
	if lat, err = strconv.ParseFloat(latStr, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", latStr, err)
	}
	if lon, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", lonStr, err)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("longitude %v out of range", lon)
	}
	return lat, lon, nil
}
