// Package ai implements the conversational coaching layer: the Anthropic
// messages client, the fixed tool catalog the model may call, and the
// orchestrator that drives one bounded request/continuation cycle per turn.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"
)

// anthropicVersion is the API version to use.
const anthropicVersion = "2023-06-01"

const defaultBaseURL = "https://api.anthropic.com"

// maxResponseSize limits the response body read to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// ErrProvider wraps any failure talking to the model provider. Handlers map
// it to a generic user-facing message; the cause is only logged server-side.
var ErrProvider = errors.New("model provider request failed")

// Content block types in the messages API.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// ContentBlock is one element of a message's content array.
type ContentBlock struct {
	Type string `json:"type"`

	// text blocks
	Text string `json:"text,omitempty"`

	// tool_use blocks
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result blocks
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// TextBlock builds a plain text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// ToolResultBlock builds a tool_result block answering the given tool_use id.
func ToolResultBlock(toolUseID, result string) ContentBlock {
	return ContentBlock{Type: BlockToolResult, ToolUseID: toolUseID, Content: result}
}

// Message is one conversation turn.
type Message struct {
	Role    string         `json:"role"` // "user" or "assistant"
	Content []ContentBlock `json:"content"`
}

// UserText builds a single-text-block user message.
func UserText(text string) Message {
	return Message{Role: "user", Content: []ContentBlock{TextBlock(text)}}
}

// Tool describes one callable operation exposed to the model.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// MessagesRequest is the Anthropic messages API request body.
type MessagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
	Tools     []Tool    `json:"tools,omitempty"`
}

// MessagesResponse is the Anthropic messages API response body.
type MessagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Text concatenates all text blocks of the response.
func (r *MessagesResponse) Text() string {
	var out string
	for _, block := range r.Content {
		if block.Type == BlockText {
			out += block.Text
		}
	}
	return out
}

// ToolUses returns the tool_use blocks in response order.
func (r *MessagesResponse) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range r.Content {
		if block.Type == BlockToolUse {
			uses = append(uses, block)
		}
	}
	return uses
}

// MessageCreator is the provider surface the orchestrator depends on.
type MessageCreator interface {
	CreateMessage(ctx context.Context, req MessagesRequest) (*MessagesResponse, error)
}

// RetryConfig holds retry settings for provider requests.
type RetryConfig struct {
	MaxAttempts       int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       2 * time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        30 * time.Second,
	}
}

// Client talks to the Anthropic messages API over HTTP with bounded retries
// on transient failures.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	retry      RetryConfig
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// WithBaseURL overrides the API endpoint (proxies, tests).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(c *Client) { c.retry = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates an Anthropic messages client.
func NewClient(apiKey, model string, maxTokens int, timeout time.Duration, opts ...ClientOption) *Client {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		retry:      DefaultRetryConfig(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateMessage sends one messages request, retrying transient failures with
// exponential backoff.
func (c *Client) CreateMessage(ctx context.Context, req MessagesRequest) (*MessagesResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = c.maxTokens
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal messages request: %w", err)
	}

	backoff := c.retry.BackoffBase
	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			// Jittered exponential backoff between attempts.
			sleep := backoff + time.Duration(rand.Int63n(int64(backoff/2)+1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(sleep):
			}
			backoff = time.Duration(float64(backoff) * c.retry.BackoffMultiplier)
			if backoff > c.retry.MaxBackoff {
				backoff = c.retry.MaxBackoff
			}
		}

		resp, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.logger.Warn("provider request failed, retrying",
			"attempt", attempt, "max_attempts", c.retry.MaxAttempts, "error", err)
	}
	return nil, fmt.Errorf("%w: %v", ErrProvider, lastErr)
}

func (c *Client) doRequest(ctx context.Context, body []byte) (*MessagesResponse, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network errors are retryable unless the context is done.
		return nil, ctx.Err() == nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, true, fmt.Errorf("read response body: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		retryable := httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("status %d: %s", httpResp.StatusCode, truncate(string(respBody), 512))
	}

	var resp MessagesResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, false, fmt.Errorf("parse messages response: %w", err)
	}
	return &resp, false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
