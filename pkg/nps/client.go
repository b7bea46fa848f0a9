package nps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"parkfinder/pkg/utils"
)

const DefaultBaseURL = "https://developer.nps.gov/api/v1"

// Observer is notified after every NPS request with the endpoint name and an
// outcome of "ok" or "error".
type Observer func(endpoint, outcome string)

// StatusError is returned when NPS answers with a non-2xx status. It matches
// utils.ErrUpstream under errors.Is.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s: HTTP %d", utils.ErrUpstream, e.Endpoint, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return utils.ErrUpstream
}

// Client is a rate limited client for the NPS data API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	observe    Observer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit caps outbound requests per second. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observe = o
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		observe:    func(string, string) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListParks fetches one page of the full park catalog.
func (c *Client) ListParks(ctx context.Context, start, limit int) (ParkPage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("start", strconv.Itoa(start))

	var page ParkPage
	if err := c.get(ctx, "parks", params, &page); err != nil {
		return ParkPage{}, err
	}
	return page, nil
}

// SearchParams drives the upstream keyword search.
type SearchParams struct {
	Query     string
	StateCode string
	Limit     int
}

// SearchParks runs the NPS keyword search, ordered by the upstream relevance score.
func (c *Client) SearchParks(ctx context.Context, p SearchParams) ([]Park, error) {
	params := url.Values{}
	params.Set("q", p.Query)
	params.Set("limit", strconv.Itoa(p.Limit))
	params.Set("fields", "addresses")
	params.Set("sort", "-relevanceScore")
	if p.StateCode != "" {
		params.Set("stateCode", p.StateCode)
	}

	var page ParkPage
	if err := c.get(ctx, "parks", params, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// GetPark looks a single park up by code. It returns nil, nil when NPS has no such park.
func (c *Client) GetPark(ctx context.Context, parkCode string) (*Park, error) {
	params := url.Values{}
	params.Set("parkCode", parkCode)

	var page ParkPage
	if err := c.get(ctx, "parks", params, &page); err != nil {
		return nil, err
	}
	if len(page.Data) == 0 {
		return nil, nil
	}
	return &page.Data[0], nil
}

func (c *Client) Alerts(ctx context.Context, parkCode string) ([]json.RawMessage, error) {
	return c.listByPark(ctx, "alerts", parkCode)
}

func (c *Client) NewsReleases(ctx context.Context, parkCode string) ([]json.RawMessage, error) {
	return c.listByPark(ctx, "newsreleases", parkCode)
}

func (c *Client) ThingsToDo(ctx context.Context, parkCode string) ([]json.RawMessage, error) {
	return c.listByPark(ctx, "thingstodo", parkCode)
}

func (c *Client) Amenities(ctx context.Context, parkCode string) ([]json.RawMessage, error) {
	return c.listByPark(ctx, "amenities", parkCode)
}

func (c *Client) listByPark(ctx context.Context, endpoint, parkCode string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("parkCode", parkCode)

	var resp listResponse
	if err := c.get(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []json.RawMessage{}, nil
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) (err error) {
	defer func() {
		if err != nil {
			c.observe(endpoint, "error")
			return
		}
		c.observe(endpoint, "ok")
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: rate limiter: %v", utils.ErrUpstream, endpoint, err)
	}

	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrUpstream, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrUpstream, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode: %v", utils.ErrUpstream, endpoint, err)
	}
	return nil
}
