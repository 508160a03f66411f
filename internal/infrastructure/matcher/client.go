package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Modes the scoring service understands. The mode names which candidate list
// the service searches, so it is the opposite of the requester's intent.
const (
	ModeTeach = "teach"
	ModeLearn = "learn"
)

type Score struct {
	UserID uuid.UUID `json:"userId"`
	Score  float64   `json:"score"`
}

type Client interface {
	Healthy(ctx context.Context) bool
	WarmUp(ctx context.Context)
	ComputeMatch(ctx context.Context, query string, mode string) ([]Score, error)
}

type httpMatcherClient struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

type computeMatchRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode"`
}

// NewClient returns nil when no base URL is configured; callers treat a nil
// client as "remote scoring disabled".
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpMatcherClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *httpMatcherClient) Healthy(ctx context.Context) bool {
	if c == nil || c.client == nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	return resp.StatusCode == http.StatusOK
}

// WarmUp pokes the service's start endpoint. Fire-and-forget: failures only
// get a log line, the caller re-probes health afterwards.
func (c *httpMatcherClient) WarmUp(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/start", nil)
	if err != nil {
		return
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[Matcher] warm-up failed: %v", err)
		}
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
}

func (c *httpMatcherClient) ComputeMatch(ctx context.Context, query string, mode string) ([]Score, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("nil matcher client")
	}
	if mode != ModeTeach && mode != ModeLearn {
		return nil, fmt.Errorf("invalid matcher mode %q", mode)
	}

	body := computeMatchRequest{Query: strings.TrimSpace(query), Mode: mode}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/compute-match"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		if c.logger != nil {
			c.logger.Printf("[Matcher] compute-match error endpoint=%s status=%d body=%q", endpoint, resp.StatusCode, bodyStr)
		}
		return nil, fmt.Errorf("compute-match failed: status=%d body=%s", resp.StatusCode, bodyStr)
	}

	var out []Score
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ Client = (*httpMatcherClient)(nil)
