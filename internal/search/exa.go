// Package search implements the Exa semantic-search client used to
// retrieve raw job-posting pages.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.exa.ai"
	httpTimeout    = 20 * time.Second
)

// Document is one raw page returned by the provider, before validation.
type Document struct {
	URL           string
	Title         string
	Text          string
	PublishedDate string // RFC 3339 when the provider knows it, else empty
}

// Request captures one retrieval strategy's provider-side constraints.
// The provider applies the domain and recency filters itself.
type Request struct {
	Query          string
	NumResults     int
	IncludeDomains []string
	PublishedAfter time.Time // zero value means no recency filter
}

// Retriever is the capability the pipeline consumes; tests swap in a stub.
type Retriever interface {
	Search(ctx context.Context, req Request) ([]Document, error)
	FindSimilar(ctx context.Context, url string, req Request) ([]Document, error)
}

// RetrievalError is any provider-side failure. StatusCode is the upstream
// HTTP status (0 for transport errors) so callers can tell a rate limit
// apart from a generic outage.
type RetrievalError struct {
	StatusCode int
	Message    string
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search provider returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("search provider call failed: %s", e.Message)
}

// IsRateLimited reports whether the upstream rejected the call with 429.
func (e *RetrievalError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

// ExaClient calls the Exa search API. Stateless after construction and
// safe to share across concurrent requests.
type ExaClient struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

// NewExaClient constructs a client with a shared HTTP client.
func NewExaClient(apiKey string) *ExaClient {
	return &ExaClient{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// exaRequest mirrors the Exa /search and /findSimilar request bodies.
type exaRequest struct {
	Query              string      `json:"query,omitempty"`
	URL                string      `json:"url,omitempty"`
	NumResults         int         `json:"numResults"`
	IncludeDomains     []string    `json:"includeDomains,omitempty"`
	StartPublishedDate string      `json:"startPublishedDate,omitempty"`
	Contents           exaContents `json:"contents"`
}

type exaContents struct {
	Text bool `json:"text"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	PublishedDate string `json:"publishedDate"`
}

// Search issues one retrieval call with inline text contents.
func (c *ExaClient) Search(ctx context.Context, req Request) ([]Document, error) {
	body := exaRequest{
		Query:          req.Query,
		NumResults:     req.NumResults,
		IncludeDomains: req.IncludeDomains,
		Contents:       exaContents{Text: true},
	}
	if !req.PublishedAfter.IsZero() {
		body.StartPublishedDate = req.PublishedAfter.Format(time.RFC3339)
	}
	return c.post(ctx, "/search", body)
}

// FindSimilar retrieves pages similar to a reference URL.
func (c *ExaClient) FindSimilar(ctx context.Context, url string, req Request) ([]Document, error) {
	body := exaRequest{
		URL:            url,
		NumResults:     req.NumResults,
		IncludeDomains: req.IncludeDomains,
		Contents:       exaContents{Text: true},
	}
	if !req.PublishedAfter.IsZero() {
		body.StartPublishedDate = req.PublishedAfter.Format(time.RFC3339)
	}
	return c.post(ctx, "/findSimilar", body)
}

func (c *ExaClient) post(ctx context.Context, path string, body exaRequest) ([]Document, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &RetrievalError{Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &RetrievalError{Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &RetrievalError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetrievalError{Message: "read body: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &RetrievalError{StatusCode: resp.StatusCode, Message: string(raw)}
	}

	var apiResp exaResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, &RetrievalError{Message: "json unmarshal: " + err.Error()}
	}

	docs := make([]Document, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		docs = append(docs, Document{
			URL:           r.URL,
			Title:         r.Title,
			Text:          r.Text,
			PublishedDate: r.PublishedDate,
		})
	}
	return docs, nil
}
