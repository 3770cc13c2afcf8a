// Package catalog queries the external place services: open-meteo for
// destination geocoding, Geoapify for nearby places and Unsplash for
// place photos.
//
// Every exported lookup degrades to an empty result on failure; callers
// never see collaborator errors.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/theirongolddev/tripplan/internal/logging"
)

const (
	defaultGeocodeURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultPlacesURL  = "https://api.geoapify.com/v2/places"
	defaultImagesURL  = "https://api.unsplash.com/search/photos"

	defaultRadius           = 8000
	defaultPerCategoryLimit = 3
	defaultTimeout          = 10 * time.Second
	defaultImagesPerMinute  = 50

	maxBodySize = 2 << 20 // 2 MB
	userAgent   = "github.com/theirongolddev/tripplan/1.0"
)

var (
	// ErrUnauthorized indicates a missing, expired or invalid API key.
	ErrUnauthorized = errors.New("catalog: unauthorized (api key missing or invalid)")
	// ErrRateLimited indicates the upstream API rate limit was hit.
	ErrRateLimited = errors.New("catalog: rate limited")
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	GeoapifyKey      string
	UnsplashKey      string
	Radius           int // metres
	PerCategoryLimit int
	Timeout          time.Duration
	ImagesPerMinute  int

	GeocodeURL string
	PlacesURL  string
	ImagesURL  string

	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client talks to the three place services.
type Client struct {
	opts   Options
	http   *http.Client
	log    *zerolog.Logger
	images *rate.Limiter
}

// New creates a client with defaults applied to opts.
func New(opts Options) *Client {
	if opts.Radius <= 0 {
		opts.Radius = defaultRadius
	}
	if opts.PerCategoryLimit <= 0 {
		opts.PerCategoryLimit = defaultPerCategoryLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.ImagesPerMinute <= 0 {
		opts.ImagesPerMinute = defaultImagesPerMinute
	}
	if opts.GeocodeURL == "" {
		opts.GeocodeURL = defaultGeocodeURL
	}
	if opts.PlacesURL == "" {
		opts.PlacesURL = defaultPlacesURL
	}
	if opts.ImagesURL == "" {
		opts.ImagesURL = defaultImagesURL
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Client{
		opts:   opts,
		http:   hc,
		log:    log,
		images: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.ImagesPerMinute)), opts.ImagesPerMinute),
	}
}

// get performs a GET of base?params and returns the response body.
func (c *Client) get(ctx context.Context, base string, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	reqURL := base
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("catalog: reading response: %w", err)
	}
	return body, nil
}
