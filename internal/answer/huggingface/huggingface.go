// Package huggingface answers questions with a hosted extractive QA model
// on the Hugging Face inference API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"pdfqa/internal/domain"
)

// Client calls a question-answering pipeline and implements domain.QAModel.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	client     *http.Client
	maxRetries int
	sleep      func(time.Duration)
}

// Config configures the inference client.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// NewClient creates a client. The API key is read from cfg.APIKeyEnv.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "HF_API_TOKEN"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.Model == "" {
		cfg.Model = "distilbert-base-uncased-distilled-squad"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     key,
		model:      cfg.Model,
		client:     &http.Client{Timeout: t},
		maxRetries: cfg.MaxRetries,
		sleep:      time.Sleep,
	}, nil
}

// Loader returns an answer.Loader compatible constructor for cfg.
func Loader(cfg Config) func(context.Context) (domain.QAModel, error) {
	return func(context.Context) (domain.QAModel, error) {
		c, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// ConcurrentSafe reports that requests may run in parallel.
func (c *Client) ConcurrentSafe() bool { return true }

type request struct {
	Inputs struct {
		Question string `json:"question"`
		Context  string `json:"context"`
	} `json:"inputs"`
}

type span struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// Infer returns the highest scoring answer span.
func (c *Client) Infer(ctx context.Context, question, text string) (domain.Answer, error) {
	var body request
	body.Inputs.Question = question
	body.Inputs.Context = text
	data, err := json.Marshal(body)
	if err != nil {
		return domain.Answer{}, err
	}
	endpoint := c.baseURL + "/models/" + c.model

	var lastErr error
	waited := false
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 && !waited {
			c.sleep(retryDelay(attempt - 1))
		}
		waited = false
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			return domain.Answer{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Answer{}, ctx.Err()
			}
			lastErr = err
			continue
		}
		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		// 503 while the model is warming up
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("huggingface inference failed: %s", resp.Status)
			if ra := resp.Header.Get("Retry-After"); ra != "" && attempt < c.maxRetries {
				if secs, convErr := strconv.Atoi(ra); convErr == nil {
					c.sleep(time.Duration(secs) * time.Second)
					waited = true
				}
			}
			continue
		}
		if resp.StatusCode >= 300 {
			return domain.Answer{}, fmt.Errorf("huggingface inference failed: %s: %s", resp.Status, apiError(payload))
		}
		if err != nil {
			lastErr = err
			continue
		}
		return parseResponse(payload)
	}
	return domain.Answer{}, lastErr
}

// parseResponse accepts a single span object or a list of spans and
// returns the best one.
func parseResponse(payload []byte) (domain.Answer, error) {
	trimmed := bytes.TrimSpace(payload)
	var spans []span
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &spans); err != nil {
			return domain.Answer{}, fmt.Errorf("decode inference response: %w", err)
		}
	} else {
		var one span
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return domain.Answer{}, fmt.Errorf("decode inference response: %w", err)
		}
		spans = []span{one}
	}
	if len(spans) == 0 {
		return domain.Answer{}, errors.New("no answer returned")
	}
	best := spans[0]
	for _, s := range spans[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return domain.Answer{Text: best.Answer, Score: best.Score}, nil
}

func apiError(payload []byte) string {
	var out struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(payload, &out) == nil && out.Error != "" {
		return out.Error
	}
	return strings.TrimSpace(string(payload))
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 500 * time.Millisecond
	d := base << attempt
	if d > 10*time.Second {
		d = 10 * time.Second
	}
	return d
}
