// Package llm relays chat-completion requests to the upstream provider.
// One request in, one response out: no streaming, no retries. A single
// upstream failure is a single relay failure; callers may re-submit.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bizadvisor/advisor/pkg/config"
	"github.com/bizadvisor/advisor/pkg/logctx"
	"github.com/bizadvisor/advisor/pkg/types"
)

// Request carries one prompt pair upstream. System and user prompts travel as
// separate messages and are never merged into one string.
type Request struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// Result is the reshaped upstream answer. Content is never empty-vs-nil
// ambiguous: absent content comes back as "".
type Result struct {
	Content string            `json:"content"`
	Usage   *types.TokenUsage `json:"usage"`
	Raw     json.RawMessage   `json:"-"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type wireResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Usage *types.TokenUsage `json:"usage"`
}

// Client issues the upstream chat-completion call. Configuration is fixed at
// construction; there is no mutable state shared across requests.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

func NewClient(cfg *config.Config, log *zap.SugaredLogger) *Client {
	timeout := time.Duration(cfg.LLM.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		apiKey:  cfg.LLM.APIKey,
		baseURL: cfg.LLM.BaseURL,
		log:     log,
		http: &http.Client{
			Timeout: timeout,
			// Redirects are handled explicitly in Complete so the POST body
			// is re-issued to the location target.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// HasAPIKey reports whether the relay holds an upstream credential. The key
// itself is never exposed.
func (c *Client) HasAPIKey() bool { return c.apiKey != "" }

// BaseURL returns the configured upstream endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

func isRedirect(status int) bool {
	return status == http.StatusMovedPermanently ||
		status == http.StatusFound ||
		status == http.StatusPermanentRedirect
}

// Complete sends one non-streaming completion request and reshapes the
// answer. At most one redirect hop is followed.
func (c *Client) Complete(ctx context.Context, req *Request) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload, err := json.Marshal(wireRequest{
		Model: req.Model,
		Messages: []wireMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Stream:      false,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upstream request: %w", err)
	}

	resp, err := c.post(ctx, c.baseURL, payload)
	if err != nil {
		return nil, err
	}

	if isRedirect(resp.StatusCode) {
		loc := resp.Header.Get("Location")
		_ = resp.Body.Close()
		if loc == "" {
			return nil, fmt.Errorf("%w: redirect %d without location header", ErrUpstreamProtocol, resp.StatusCode)
		}
		logctx.FromCtx(ctx, c.log).Infow("following upstream redirect", "status", resp.StatusCode, "location", loc)
		resp, err = c.post(ctx, loc, payload)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: unparseable completion body (status %d): %v", ErrUpstreamProtocol, resp.StatusCode, err)
	}

	res := &Result{Usage: wire.Usage, Raw: body}
	if len(wire.Choices) > 0 {
		res.Content = wire.Choices[0].Message.Content
	}
	return res, nil
}

func (c *Client) post(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	return resp, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
