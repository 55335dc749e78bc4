// Package completion sends a conversation to the chat completion endpoint and
// returns the next assistant message.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/papercomputeco/talktodo/pkg/config"
	"github.com/papercomputeco/talktodo/pkg/llm"
)

const (
	// Static identification headers sent with every request.
	refererHeader = "HTTP-Referer"
	referer       = "https://github.com/yourusername/TalkToDo"
	titleHeader   = "X-Title"
	title         = "TalkToDo Chatbot"

	contentPath = "choices.0.message.content"

	// maxErrorBody bounds how much of an upstream error body ends up in a
	// user visible message.
	maxErrorBody = 300
)

// Client is a stateless completion client. It never mutates the history
// passed to it.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client bound to cfg. It returns config.ErrConfigMissing when
// cfg carries no API key, so no request can ever be sent without one.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, config.ErrConfigMissing
	}

	c := &Client{
		endpoint: cfg.EndpointURL,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		// No timeout: a completion is a single blocking attempt.
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	if c.endpoint == "" {
		c.endpoint = config.EndpointURL
	}
	if c.model == "" {
		c.model = config.DefaultModel
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Complete sends history, oldest first, and returns the content of the first
// completion choice. Failures are ErrRequestFailed or ErrMalformedResponse.
func (c *Client) Complete(ctx context.Context, history []llm.Turn) (string, error) {
	startTime := time.Now()

	reqBody, err := json.Marshal(llm.NewChatRequest(c.model, history, config.Temperature))
	if err != nil {
		return "", ErrRequestFailed{Message: fmt.Sprintf("could not encode request: %v", err), Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", ErrRequestFailed{Message: fmt.Sprintf("could not create request: %v", err), Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(refererHeader, referer)
	httpReq.Header.Set(titleHeader, title)

	c.logger.Debug("sending completion request",
		zap.String("url", c.endpoint),
		zap.String("model", c.model),
		zap.Int("message_count", len(history)),
		zap.Int("body_size", len(reqBody)),
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", ErrRequestFailed{Message: err.Error(), Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", ErrRequestFailed{
			StatusCode: httpResp.StatusCode,
			Message:    fmt.Sprintf("could not read response: %v", err),
			Err:        err,
		}
	}

	c.logger.Debug("received completion response",
		zap.Int("status", httpResp.StatusCode),
		zap.Int("body_size", len(body)),
		zap.Duration("duration", time.Since(startTime)),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return "", ErrRequestFailed{
			StatusCode: httpResp.StatusCode,
			Message:    statusMessage(httpResp.StatusCode, c.endpoint, body),
		}
	}

	return parseContent(body)
}

// parseContent extracts choices[0].message.content from a response body.
func parseContent(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", ErrRequestFailed{
			StatusCode: http.StatusOK,
			Message:    "could not decode response: body is not valid JSON",
		}
	}

	content := gjson.GetBytes(body, contentPath)
	if !content.Exists() {
		return "", ErrMalformedResponse{Reason: "missing " + contentPath}
	}
	if content.Type != gjson.String {
		return "", ErrMalformedResponse{Reason: fmt.Sprintf("%s is %s, not a string", contentPath, content.Type)}
	}

	return content.String(), nil
}

// statusMessage describes an HTTP error status the way a user can act on,
// e.g. "401 Unauthorized for url: https://...: {"error": ...}".
func statusMessage(status int, url string, body []byte) string {
	msg := fmt.Sprintf("%d %s for url: %s", status, http.StatusText(status), url)

	detail := strings.TrimSpace(strings.ReplaceAll(string(body), "\n", " "))
	if detail == "" {
		return msg
	}
	if len(detail) > maxErrorBody {
		detail = truncateUTF8(detail, maxErrorBody) + "..."
	}

	return msg + ": " + detail
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
