// Package search queries the restaurant search index for candidate ids.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// pageSize bounds how many candidates one query requests.
const pageSize = 100

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Client talks to an OpenSearch-compatible index over HTTP.
type Client struct {
	baseURL    string
	index      string
	user       string
	password   string
	httpClient *http.Client
}

// New creates a client against an explicit endpoint.
func New(baseURL, index, user, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		index:    index,
		user:     user,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewFromEnv creates a client configured from the environment.
func NewFromEnv() *Client {
	return New(
		getenv("SEARCH_URL", "http://opensearch:9200"),
		getenv("SEARCH_INDEX", "restaurants"),
		getenv("SEARCH_USER", ""),
		getenv("SEARCH_PASSWORD", ""),
	)
}

type matchQuery struct {
	Query struct {
		Match map[string]string `json:"match"`
	} `json:"query"`
	Size int `json:"size"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				BusinessID string `json:"business_id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// CandidatesByCuisine returns the ids of every indexed restaurant whose
// cuisine field matches, up to one page. Result order is not meaningful to
// callers; only the id field of each hit is consumed.
func (c *Client) CandidatesByCuisine(ctx context.Context, cuisine string) ([]string, error) {
	var q matchQuery
	q.Query.Match = map[string]string{"cuisine": cuisine}
	q.Size = pageSize

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("search: marshal query: %w", err)
	}

	url := fmt.Sprintf("%s/%s/_search", c.baseURL, c.index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: execute query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: index error (status %d)", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	ids := make([]string, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		if hit.Source.BusinessID != "" {
			ids = append(ids, hit.Source.BusinessID)
		}
	}
	return ids, nil
}
