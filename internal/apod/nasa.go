package apod

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rcliao/space-dashboard/internal/metrics"
	"github.com/rcliao/space-dashboard/internal/model"
)

// Provider returns the daily content published for a date.
type Provider interface {
	// Content returns the entry published for date (YYYY-MM-DD).
	Content(ctx context.Context, date string) (*model.DailyContent, error)
	// Latest returns the most recently published entry.
	Latest(ctx context.Context) (*model.DailyContent, error)
}

// NASAClient talks to the APOD endpoint of api.nasa.gov.
type NASAClient struct {
	client *resty.Client
	apiKey string
}

// NewNASAClient creates a client for baseURL, e.g. https://api.nasa.gov.
func NewNASAClient(baseURL, apiKey string, timeout time.Duration) *NASAClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &NASAClient{client: c, apiKey: apiKey}
}

// apodError is the error body the APOD endpoint returns with 4xx responses.
type apodError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (n *NASAClient) Content(ctx context.Context, date string) (*model.DailyContent, error) {
	return n.get(ctx, "apod "+date, map[string]string{"date": date})
}

func (n *NASAClient) Latest(ctx context.Context) (*model.DailyContent, error) {
	return n.get(ctx, "apod latest", nil)
}

func (n *NASAClient) get(ctx context.Context, op string, params map[string]string) (*model.DailyContent, error) {
	content, err := n.do(ctx, op, params)
	metrics.ObserveUpstream("nasa", err)
	return content, err
}

func (n *NASAClient) do(ctx context.Context, op string, params map[string]string) (*model.DailyContent, error) {
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", n.apiKey).
		SetQueryParams(params).
		Get("/planetary/apod")
	if err != nil {
		return nil, networkError(op, 0, err)
	}
	if resp.StatusCode() != http.StatusOK {
		var body apodError
		msg := resp.String()
		if json.Unmarshal(resp.Body(), &body) == nil && body.Msg != "" {
			msg = body.Msg
		}
		return nil, networkError(op, resp.StatusCode(), errors.New(msg))
	}

	var content model.DailyContent
	if err := json.Unmarshal(resp.Body(), &content); err != nil {
		return nil, parseError(op, err)
	}
	if content.Date == "" || content.Title == "" {
		return nil, parseError(op, fmt.Errorf("missing date or title"))
	}
	return &content, nil
}
