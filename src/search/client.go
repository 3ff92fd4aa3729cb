// Package search queries the Google Custom Search JSON API.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/apimgr/hey/src/common/version"
	"github.com/apimgr/hey/src/config"
	"github.com/apimgr/hey/src/model"
)

// Fixed request parameters
const (
	ResultCount      = 3
	LanguageHint     = "en"
	LanguageRestrict = "lang_en"
)

// maxErrorBody caps how much of an error response is kept in a SearchError
const maxErrorBody = 512

// Item is a single search hit.
type Item struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Result is the ordered list of hits for one query.
type Result struct {
	Items []Item
}

// Snippets returns the snippet of each item, in order.
func (r *Result) Snippets() []string {
	out := make([]string, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Snippet
	}
	return out
}

// Links returns the link of each item, in order.
func (r *Result) Links() []string {
	out := make([]string, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Link
	}
	return out
}

// response is the subset of the API payload we read. Items is a pointer so
// that an absent field can be told apart from an empty array.
type response struct {
	Items *[]Item `json:"items"`
}

// Client is the search API client
type Client struct {
	BaseURL    string
	APIKey     string
	EngineID   string
	HTTPClient *http.Client
}

// NewClient creates a search client from the resolved configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		BaseURL:  cfg.SearchURL,
		APIKey:   cfg.SearchAPIKey,
		EngineID: cfg.SearchEngineID,
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Search issues one GET for query and returns the decoded hits.
// There are no retries.
func (c *Client) Search(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &model.UsageError{Err: model.ErrEmptyQuery}
	}

	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("cx", c.EngineID)
	params.Set("q", query)
	params.Set("hl", LanguageHint)
	params.Set("num", fmt.Sprintf("%d", ResultCount))
	params.Set("lr", LanguageRestrict)

	reqURL := c.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &model.SearchError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", version.Get().UserAgent("hey"))
	req.Header.Set("Accept", "application/json")

	slog.Debug("search request", "url", c.BaseURL, "query", query, "num", ResultCount)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &model.SearchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &model.SearchError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	result, err := decode(resp.Body)
	if err != nil {
		return nil, err
	}
	slog.Debug("search response", "items", len(result.Items))
	return result, nil
}

func decode(r io.Reader) (*Result, error) {
	var payload response
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &model.ResponseShapeError{Detail: "empty body"}
		}
		return nil, &model.ResponseShapeError{Detail: "decode body", Err: err}
	}
	if payload.Items == nil {
		return nil, &model.ResponseShapeError{Err: model.ErrMissingItems}
	}

	items := *payload.Items
	for i, item := range items {
		if item.Link == "" {
			return nil, &model.ResponseShapeError{Detail: fmt.Sprintf("item %d has no link", i+1)}
		}
	}
	return &Result{Items: items}, nil
}
