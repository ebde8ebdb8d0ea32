// Package google translates through the public Google Translate web endpoint.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a translate.googleapis.com client implementing domain.TranslationService.
type Client struct {
	baseURL    string
	client     *http.Client
	maxRetries int
	sleep      func(time.Duration)
}

// Config configures the client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// NewClient creates a new translation client using the provided configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://translate.googleapis.com"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		client:     &http.Client{Timeout: t},
		maxRetries: cfg.MaxRetries,
		sleep:      time.Sleep,
	}
}

// Translate translates text from source to target language code.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)
	endpoint := c.baseURL + "/translate_a/single?" + q.Encode()

	var lastErr error
	waited := false
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 && !waited {
			c.sleep(retryDelay(attempt - 1))
		}
		waited = false
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return "", err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}
		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("google translate failed: %s", resp.Status)
			if ra := resp.Header.Get("Retry-After"); ra != "" && attempt < c.maxRetries {
				if secs, convErr := strconv.Atoi(ra); convErr == nil {
					c.sleep(time.Duration(secs) * time.Second)
					waited = true
				}
			}
			continue
		}
		if resp.StatusCode >= 300 {
			return "", fmt.Errorf("google translate failed: %s", resp.Status)
		}
		if err != nil {
			lastErr = err
			continue
		}
		return parseResponse(payload)
	}
	return "", lastErr
}

// parseResponse joins the translated segments of a gtx response:
// [[["translated","original",...],...],...].
func parseResponse(payload []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("empty translate response")
	}
	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", fmt.Errorf("decode translate segments: %w", err)
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
		return "", errors.New("no translation returned")
	}
	return b.String(), nil
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
