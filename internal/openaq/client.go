package openaq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

const pageSize = 1000

// ErrNoRecentData is returned when the measurements endpoint answers with an
// empty result set. It means "this station has no recent data", which callers
// treat differently from a failed request.
var ErrNoRecentData = errors.New("no recent data for location")

// FetchError describes a transport fault or a non-2xx response from the API.
// Transport faults carry Status 0.
type FetchError struct {
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("openaq request failed: %s", e.Body)
	}
	return fmt.Sprintf("openaq request failed: status %d: %s", e.Status, e.Body)
}

// ClientConfig bundles the settings for a Client.
type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string

	// DateFrom is the fixed historical start for recent-measurement queries.
	DateFrom time.Time

	// RecentMinGap is the minimum delay enforced between two recent-data
	// requests issued through this client.
	RecentMinGap time.Duration
}

// Client talks to the OpenAQ API. The all-locations fetch is plain; the
// recent-measurements path is throttled and guarded by a circuit breaker
// because it runs repeatedly mid-session.
type Client struct {
	http     *http.Client
	baseURL  string
	apiKey   string
	dateFrom time.Time

	minGap     time.Duration
	mu         sync.Mutex
	lastRecent time.Time

	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client. Throttle and breaker state are per client, so
// callers that need isolated rate limiting construct one client each.
func NewClient(cfg ClientConfig) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openaq-measurements",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		http:     cfg.HTTPClient,
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		dateFrom: cfg.DateFrom,
		minGap:   cfg.RecentMinGap,
		circuit:  cb,
	}
}

// FetchLocations retrieves every monitoring location the API knows about by
// walking fixed-size pages until one comes back empty. There is no retry: the
// first failure aborts the whole fetch.
func (c *Client) FetchLocations(ctx context.Context) ([]Location, error) {
	var all []Location

	for page := 1; ; page++ {
		values := url.Values{}
		values.Set("limit", fmt.Sprintf("%d", pageSize))
		values.Set("page", fmt.Sprintf("%d", page))

		results, err := c.getResults(ctx, "/locations", values)
		if err != nil {
			return nil, err
		}

		var locations []Location
		if err := json.Unmarshal(results, &locations); err != nil {
			return nil, &FetchError{Body: fmt.Sprintf("decoding locations page %d: %v", page, err)}
		}
		if len(locations) == 0 {
			break
		}
		all = append(all, locations...)
	}

	return all, nil
}

// FetchRecent retrieves up to one page of measurements for a single location
// and pollutant code, from the fixed start date to now. Returns
// ErrNoRecentData when the result set is empty.
func (c *Client) FetchRecent(ctx context.Context, locationID int, parameter string) ([]Measurement, error) {
	if err := c.waitRecentGap(ctx); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("date_from", c.dateFrom.UTC().Format(time.RFC3339))
	values.Set("limit", fmt.Sprintf("%d", pageSize))
	values.Set("location_id", fmt.Sprintf("%d", locationID))
	values.Set("parameter", parameter)
	values.Set("sort", "asc")

	results, err := c.circuit.Execute(func() (interface{}, error) {
		return c.getResults(ctx, "/measurements", values)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &FetchError{Body: err.Error()}
		}
		return nil, err
	}

	var measurements []Measurement
	if err := json.Unmarshal(results.(json.RawMessage), &measurements); err != nil {
		return nil, &FetchError{Body: fmt.Sprintf("decoding measurements: %v", err)}
	}
	if len(measurements) == 0 {
		return nil, ErrNoRecentData
	}

	return measurements, nil
}

// waitRecentGap blocks until the minimum gap since the previous recent-data
// request has elapsed. It delays requests rather than dropping them.
func (c *Client) waitRecentGap(ctx context.Context) error {
	if c.minGap <= 0 {
		return nil
	}

	c.mu.Lock()
	now := time.Now()
	next := c.lastRecent.Add(c.minGap)
	if next.Before(now) {
		next = now
	}
	c.lastRecent = next
	c.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// getResults issues one GET and returns the raw "results" array. Any non-2xx
// status or transport fault is surfaced as a *FetchError.
func (c *Client) getResults(ctx context.Context, path string, values url.Values) (json.RawMessage, error) {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Body: err.Error()}
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Status: resp.StatusCode, Body: string(body)}
	}

	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &FetchError{Body: fmt.Sprintf("decoding response envelope: %v", err)}
	}

	return envelope.Results, nil
}
