// Package openlibrary implements the Open Library lookups used for
// description enrichment: edition-by-ISBN, title search and work records.
package openlibrary

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bibliomatch/internal/metrics"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const providerLabel = "openlibrary"

// Client is a rate-limited Open Library API client. Enrichment is
// best-effort, so calls are bounded by the HTTP timeout and never retried.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
}

// NewClient creates an Open Library client.
func NewClient(baseURL, userAgent string, rps int, timeout time.Duration, m *metrics.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		metrics:    m,
	}
}

// editionResponse matches isbn/{isbn}.json
type editionResponse struct {
	Works []struct {
		Key string `json:"key"`
	} `json:"works"`
}

// searchResponse matches search.json
type searchResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Key   string `json:"key"`
		Title string `json:"title"`
	} `json:"docs"`
}

// workResponse matches works/{id}.json. Description is polymorphic: either
// a plain string or {"type": ..., "value": string}.
type workResponse struct {
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description"`
}

// WorkByISBN looks up the edition for isbn and returns its work identifier.
// An unknown ISBN yields an empty identifier and no error.
func (c *Client) WorkByISBN(ctx context.Context, isbn string) (string, error) {
	u := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, url.PathEscape(isbn))

	var res editionResponse
	if err := c.get(ctx, u, &res); err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	if len(res.Works) == 0 {
		return "", nil
	}
	return strings.TrimPrefix(res.Works[0].Key, "/works/"), nil
}

// WorkByTitle searches by title and returns the first match's work
// identifier, or empty when nothing matched.
func (c *Client) WorkByTitle(ctx context.Context, title string) (string, error) {
	u := fmt.Sprintf("%s/search.json?title=%s&fields=key,title&limit=1",
		c.baseURL, url.QueryEscape(title))

	var res searchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return "", err
	}
	if len(res.Docs) == 0 {
		return "", nil
	}
	return strings.TrimPrefix(res.Docs[0].Key, "/works/"), nil
}

// Description fetches the work record and returns its description as plain
// text, normalizing both observed shapes. A work without a description
// yields an empty string and no error.
func (c *Client) Description(ctx context.Context, workID string) (string, error) {
	u := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(workID))

	var res workResponse
	if err := c.get(ctx, u, &res); err != nil {
		return "", err
	}
	return normalizeDescription(res.Description), nil
}

func normalizeDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var v struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &v); err == nil {
		return strings.TrimSpace(v.Value)
	}
	return ""
}

type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

func isNotFound(err error) bool {
	se, ok := err.(statusError)
	return ok && se.code == http.StatusNotFound
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveProviderDuration(providerLabel, time.Since(start))
	if err != nil {
		c.metrics.IncProviderRequest(providerLabel, "failure")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.IncProviderRequest(providerLabel, "failure")
		return statusError{code: resp.StatusCode}
	}

	c.metrics.IncProviderRequest(providerLabel, "success")
	return json.NewDecoder(resp.Body).Decode(target)
}
