package apod

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rcliao/space-dashboard/internal/chunker"
	"github.com/rcliao/space-dashboard/internal/i18n"
	"github.com/rcliao/space-dashboard/internal/metrics"
)

// Translator translates English text into a target language.
type Translator interface {
	Translate(ctx context.Context, text string, target i18n.Language) (string, error)
}

// GoogleTranslator uses the public translate_a/single endpoint. Text is sent
// in chunks so each request URL stays small.
type GoogleTranslator struct {
	client *resty.Client
	opts   chunker.Options
}

func NewGoogleTranslator(baseURL string, timeout time.Duration) *GoogleTranslator {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &GoogleTranslator{client: c, opts: chunker.DefaultOptions()}
}

func (g *GoogleTranslator) Translate(ctx context.Context, text string, target i18n.Language) (string, error) {
	if strings.TrimSpace(text) == "" || target == i18n.EN {
		return text, nil
	}

	chunks := chunker.Chunk(text, g.opts)
	out := make([]string, len(chunks))
	for i, c := range chunks {
		t, err := g.translateChunk(ctx, c.Text, target)
		metrics.ObserveUpstream("translate", err)
		if err != nil {
			return "", fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
		}
		out[i] = t
	}
	return chunker.Join(chunks, out), nil
}

func (g *GoogleTranslator) translateChunk(ctx context.Context, text string, target i18n.Language) (string, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     "en",
			"tl":     string(target),
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		return "", networkError("translate", 0, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", networkError("translate", resp.StatusCode(), fmt.Errorf("unexpected status %s", resp.Status()))
	}
	return parseTranslation(resp.Body())
}

// parseTranslation concatenates the first element of every segment in the
// first array of the response: [[["Olá","Hello",...],...],...].
func parseTranslation(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", parseError("translate", err)
	}
	if len(raw) == 0 {
		return "", parseError("translate", fmt.Errorf("empty response"))
	}

	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", parseError("translate", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", parseError("translate", fmt.Errorf("no translated segments"))
	}
	return b.String(), nil
}
