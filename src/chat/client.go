// Package chat streams answers from an OpenAI-compatible chat completion API.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/apimgr/hey/src/common/version"
	"github.com/apimgr/hey/src/config"
	"github.com/apimgr/hey/src/model"
)

// Temperature is kept low so answers stay close to the supplied context
const Temperature = 0.1

// Client sends prompts to the chat completion API
type Client struct {
	cfg *config.Config
	api openai.Client
}

// NewClient creates a chat client from the resolved configuration.
// Extra request options are appended after the defaults, which lets tests
// point the client at a fake server.
func NewClient(cfg *config.Config, extra ...option.RequestOption) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAIKey),
		option.WithMaxRetries(0),
		option.WithHeader("User-Agent", version.Get().UserAgent("hey")),
		option.WithHTTPClient(newHTTPClient(cfg.Timeout)),
		option.WithMiddleware(requestIDMiddleware),
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	opts = append(opts, extra...)

	return &Client{
		cfg: cfg,
		api: openai.NewClient(opts...),
	}
}

// Chat submits the prompt built from userInput and snippets and returns the
// streamed answer. Failures that happen before the first fragment (bad key,
// quota, unreachable host) are returned here as *model.ChatError; later
// failures are reported by Stream.Err.
func (c *Client) Chat(ctx context.Context, userInput string, snippets []string) (Stream, error) {
	msgs := BuildMessages(c.cfg, userInput, snippets)
	params := openai.ChatCompletionNewParams{
		Model:       c.cfg.OpenAIModel,
		Messages:    toParams(msgs),
		Temperature: openai.Float(Temperature),
	}

	slog.Debug("chat request", "model", c.cfg.OpenAIModel, "messages", len(msgs))

	src := c.api.Chat.Completions.NewStreaming(ctx, params)

	s := &sdkStream{src: src}
	if src.Next() {
		s.primed = true
		return s, nil
	}
	if err := src.Err(); err != nil {
		src.Close()
		return nil, wrapError(err)
	}
	s.done = true
	return s, nil
}

// wrapError converts SDK and transport errors into *model.ChatError
func wrapError(err error) error {
	var chatErr *model.ChatError
	if errors.As(err, &chatErr) {
		return err
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &model.ChatError{StatusCode: apiErr.StatusCode, Err: err}
	}
	return &model.ChatError{Err: err}
}

// newHTTPClient bounds the wait for response headers only, so a long answer
// can keep streaming past the timeout.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	return &http.Client{Transport: transport}
}

func requestIDMiddleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	requestID := req.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set("X-Request-ID", requestID)
	}
	start := time.Now()
	resp, err := next(req)
	attrs := []any{"request_id", requestID, "method", req.Method, "path", req.URL.Path, "duration", time.Since(start)}
	if resp != nil {
		attrs = append(attrs, "status", resp.StatusCode)
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	slog.Debug("chat http", attrs...)
	return resp, err
}
