// Package googlebooks implements the Google Books volumes lookups used as
// an alternate description provider.
package googlebooks

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

const providerLabel = "googlebooks"

// Client is a rate-limited Google Books API client. Unlike Open Library,
// volume search responses carry the description directly, so each lookup is
// a single request.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
}

// NewClient creates a Google Books client.
func NewClient(baseURL, userAgent string, rps int, timeout time.Duration, m *metrics.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		metrics:    m,
	}
}

// volumesResponse matches books/v1/volumes
type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// DescriptionByISBN returns the description of the volume matching isbn,
// or empty when no volume matched or the first match has no description.
func (c *Client) DescriptionByISBN(ctx context.Context, isbn string) (string, error) {
	return c.query(ctx, "isbn:"+isbn)
}

// DescriptionByTitle returns the description of the first volume whose
// title matches, or empty when nothing matched.
func (c *Client) DescriptionByTitle(ctx context.Context, title string) (string, error) {
	return c.query(ctx, "intitle:"+title)
}

func (c *Client) query(ctx context.Context, q string) (string, error) {
	u := fmt.Sprintf("%s/books/v1/volumes?q=%s", c.baseURL, url.QueryEscape(q))

	var res volumesResponse
	if err := c.get(ctx, u, &res); err != nil {
		return "", err
	}
	if len(res.Items) == 0 {
		return "", nil
	}
	return strings.TrimSpace(res.Items[0].VolumeInfo.Description), nil
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
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	c.metrics.IncProviderRequest(providerLabel, "success")
	return json.NewDecoder(resp.Body).Decode(target)
}
