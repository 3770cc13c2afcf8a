package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// NoImageURL is shown when an image lookup fails outright.
const NoImageURL = "https://upload.wikimedia.org/wikipedia/commons/a/ac/No_image_available.svg"

// LookupImage returns a photo URL for a place. When the search has no hit,
// is skipped (no key, local rate limit) the result is a generic photo for
// the category; when the request fails it is NoImageURL.
func (c *Client) LookupImage(ctx context.Context, name, category string) string {
	fallback := categoryImageURL(category)

	if c.opts.UnsplashKey == "" || !c.images.Allow() {
		return fallback
	}

	img, err := c.searchImage(ctx, strings.TrimSpace(name+" "+category))
	if err != nil {
		c.log.Warn().Err(err).Str("place", name).Msg("image lookup failed")
		return NoImageURL
	}
	if img == "" {
		return fallback
	}
	return img
}

func (c *Client) searchImage(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("orientation", "landscape")
	params.Set("per_page", "1")
	params.Set("client_id", c.opts.UnsplashKey)

	body, err := c.get(ctx, c.opts.ImagesURL, params)
	if err != nil {
		return "", err
	}

	var raw imageSearchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("catalog: parsing image results: %w", err)
	}
	if len(raw.Results) == 0 {
		return "", nil
	}
	return raw.Results[0].URLs.Regular, nil
}

func categoryImageURL(category string) string {
	if category == "" {
		category = "travel"
	}
	return "https://source.unsplash.com/600x400/?" + url.QueryEscape(category)
}
