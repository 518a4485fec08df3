// Package recommender implements the wire client for the recommendation
// service: single-title resolution and batched taste-test aggregation.
package recommender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"bibliomatch/internal/entity"
	"bibliomatch/internal/metrics"
	"bibliomatch/internal/recommend"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const providerLabel = "recommender"

// Client talks to the recommendation service over HTTP. A circuit breaker
// keeps a flapping service from being hammered; it never retries a call on
// its own.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

// NewClient creates a recommendation service client.
func NewClient(baseURL, userAgent string, rps int, timeout time.Duration, m *metrics.Metrics, log zerolog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        providerLabel,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		breaker:    breaker,
		metrics:    m,
		log:        log,
	}
}

type recommendRequest struct {
	BookName string `json:"book_name"`
}

type recommendResponse struct {
	Error           string        `json:"error"`
	FoundBook       *entity.Book  `json:"found_book"`
	Recommendations []entity.Book `json:"recommendations"`
}

type tasteTestRequest struct {
	Books []string `json:"books"`
}

// Recommend resolves a single free-text title. No-match responses come in
// two observed shapes, an explicit error field or a bare array of message
// strings; both map to recommend.ErrNotFound.
func (c *Client) Recommend(ctx context.Context, query string) (*recommend.Result, error) {
	raw, err := c.post(ctx, "/api/recommend", recommendRequest{BookName: query})
	if err != nil {
		return nil, err
	}

	if isJSONArray(raw) {
		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err == nil {
			return nil, recommend.ErrNotFound
		}
		return nil, recommend.TransportError{Err: errors.New("unexpected array response from /api/recommend")}
	}

	var res recommendResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, recommend.TransportError{Err: err}
	}
	if res.Error != "" {
		return nil, recommend.ErrNotFound
	}
	if res.FoundBook == nil {
		return nil, recommend.TransportError{Err: errors.New("response missing found_book")}
	}

	return &recommend.Result{Found: *res.FoundBook, Related: res.Recommendations}, nil
}

// TasteTest submits canonical titles as one batch and returns the merged
// recommendation list. A service-side error object means the whole batch
// failed; there are no partial results.
func (c *Client) TasteTest(ctx context.Context, titles []string) ([]entity.Book, error) {
	raw, err := c.post(ctx, "/api/taste_test", tasteTestRequest{Books: titles})
	if err != nil {
		return nil, err
	}

	if isJSONArray(raw) {
		var books []entity.Book
		if err := json.Unmarshal(raw, &books); err != nil {
			return nil, recommend.TransportError{Err: err}
		}
		return books, nil
	}

	var res struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, recommend.TransportError{Err: err}
	}
	if res.Error != "" {
		return nil, recommend.TransportError{Err: errors.New(res.Error)}
	}
	return nil, recommend.TransportError{Err: errors.New("unexpected response from /api/taste_test")}
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, recommend.TransportError{Err: err}
	}

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, path, body)
	})
	if err != nil {
		c.metrics.IncProviderRequest(providerLabel, "failure")
		return nil, recommend.TransportError{Err: err}
	}
	c.metrics.IncProviderRequest(providerLabel, "success")
	return raw, nil
}

func (c *Client) do(ctx context.Context, path string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveProviderDuration(providerLabel, time.Since(start))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
