// Package moon reports the current moon phase from weatherapi.com.
package moon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/metrics"
	"github.com/rcliao/space-dashboard/internal/model"
)

type Client struct {
	client   *resty.Client
	apiKey   string
	location string
}

func NewClient(baseURL, apiKey, location string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{client: c, apiKey: apiKey, location: location}
}

type astronomyResponse struct {
	Astronomy struct {
		Astro struct {
			MoonPhase string `json:"moon_phase"`
		} `json:"astro"`
	} `json:"astronomy"`
}

// Phase returns the provider's phase name for the configured location.
func (c *Client) Phase(ctx context.Context) (string, error) {
	phase, err := c.phase(ctx)
	metrics.ObserveUpstream("weather", err)
	return phase, err
}

func (c *Client) phase(ctx context.Context) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": c.apiKey,
			"q":   c.location,
		}).
		Get("/v1/astronomy.json")
	if err != nil {
		return "", fmt.Errorf("moon phase request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("moon phase status %d: %s", resp.StatusCode(), resp.String())
	}

	var ar astronomyResponse
	if err := json.Unmarshal(resp.Body(), &ar); err != nil {
		return "", fmt.Errorf("decode moon phase: %w", err)
	}
	phase := strings.TrimSpace(ar.Astronomy.Astro.MoonPhase)
	if phase == "" {
		return "", fmt.Errorf("moon phase missing from response")
	}
	return phase, nil
}

// Current returns the phase with a label in lang.
func (c *Client) Current(ctx context.Context, lang i18n.Language) (*model.MoonPhase, error) {
	phase, err := c.Phase(ctx)
	if err != nil {
		return nil, err
	}
	label, _ := i18n.MoonLabel(lang, phase)
	return &model.MoonPhase{Phase: phase, Label: label}, nil
}
