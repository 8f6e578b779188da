// Package archive mirrors unfolded documents to an external KV archive over
// HTTP. Archiving is optional; the in-memory store remains the source of
// truth and archive failures never lose a collection.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docfold/docfold/internal/docmodel"
)

// RetryableError marks archive failures worth retrying: network errors,
// throttling and server-side errors.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Client talks to the archive KV HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// documentRecord is the archived shape of one document.
type documentRecord struct {
	Index     int      `json:"index"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	WordCount int      `json:"word_count"`
	Blank     bool     `json:"blank"`
	Raw       string   `json:"raw"`
}

// PutDocument archives one document under corpora/{collID}/documents/{index}.
func (c *Client) PutDocument(ctx context.Context, collID string, doc *docmodel.Document) error {
	key := fmt.Sprintf("corpora/%s/documents/%d", collID, doc.Index)
	return c.put(ctx, key, documentRecord{
		Index:     doc.Index,
		Title:     doc.Title,
		Tags:      doc.Tags,
		WordCount: doc.WordCount,
		Blank:     doc.Blank,
		Raw:       doc.Raw,
	})
}

// PutMeta archives the collection summary under corpora/{collID}/meta.
func (c *Client) PutMeta(ctx context.Context, summary docmodel.Summary) error {
	return c.put(ctx, fmt.Sprintf("corpora/%s/meta", summary.ID), summary)
}

func (c *Client) put(ctx context.Context, key string, value any) error {
	body, err := json.Marshal(map[string]any{"value": value})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/kv/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("put %s: %w", key, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return nil
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	putErr := fmt.Errorf("put %s: status %d: %s", key, resp.StatusCode, string(respBody))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{Err: putErr}
	}
	return putErr
}

// DeleteCollection removes a collection subtree from the archive.
func (c *Client) DeleteCollection(ctx context.Context, collID string) error {
	u := fmt.Sprintf("%s/kv/corpora/%s?children=true", c.baseURL, collID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("delete corpora/%s: %w", collID, err)}
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	delErr := fmt.Errorf("delete corpora/%s: status %d: %s", collID, resp.StatusCode, string(respBody))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{Err: delErr}
	}
	return delErr
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
