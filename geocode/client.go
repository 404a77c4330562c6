// Package geocode resolves free-text place names to coordinates through the
// Open-Meteo geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultURL       = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultTimeout   = 8 * time.Second
	DefaultCacheSize = 256

	// MaxResults caps every result set.
	MaxResults = 8
)

// Place is one geocoding match.
type Place struct {
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone,omitempty"`
}

// Label joins the non-empty name parts, most specific first.
func (p Place) Label() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Name, p.Admin1, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Finder looks places up by name.
type Finder interface {
	Search(ctx context.Context, query string) ([]Place, error)
}

// Client is an HTTP Finder with a result cache. Concurrent lookups of the
// same query share one request.
type Client struct {
	client    *http.Client
	url       string
	timeout   time.Duration
	cacheSize int

	cache *lru.Cache
	group singleflight.Group
}

type Option func(*Client)

func WithURL(u string) Option {
	return func(c *Client) {
		c.url = u
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithCacheSize bounds the number of cached queries. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(c *Client) {
		c.cacheSize = n
	}
}

func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		url:       DefaultURL,
		timeout:   DefaultTimeout,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	if c.cacheSize > 0 {
		cache, err := lru.New(c.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("geocode cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

type searchResponse struct {
	Results []Place `json:"results"`
}

// Search returns up to MaxResults places for query. A blank query returns
// no places and makes no request.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	key := normalizeQuery(query)
	if key == "" {
		return nil, nil
	}
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v.([]Place), nil
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		places, err := c.fetch(ctx, strings.TrimSpace(query))
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.Add(key, places)
		}
		return places, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Place), nil
}

func (c *Client) fetch(ctx context.Context, query string) ([]Place, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("parse geocode url: %w", err)
	}
	q := u.Query()
	q.Set("name", query)
	q.Set("count", strconv.Itoa(MaxResults))
	q.Set("language", "en")
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode %q: unexpected status code: %d", query, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(body.Results) > MaxResults {
		body.Results = body.Results[:MaxResults]
	}
	if body.Results == nil {
		body.Results = []Place{}
	}
	return body.Results, nil
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
