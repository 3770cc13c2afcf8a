package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/theirongolddev/tripplan/internal/model"
)

// Search geocodes a free-text destination name. An empty query returns no
// results without a network call.
func (c *Client) Search(ctx context.Context, query string) ([]model.Destination, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("name", query)

	body, err := c.get(ctx, c.opts.GeocodeURL, params)
	if err != nil {
		return nil, err
	}

	var raw geocodeResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parsing geocode results: %w", err)
	}

	out := make([]model.Destination, 0, len(raw.Results))
	for _, r := range raw.Results {
		out = append(out, model.Destination{
			Name:    r.Name,
			Country: r.Country,
			Lat:     r.Latitude,
			Lon:     r.Longitude,
		})
	}
	return out, nil
}

// SearchByName is Search with failures logged and degraded to no results.
func (c *Client) SearchByName(ctx context.Context, query string) []model.Destination {
	out, err := c.Search(ctx, query)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("destination search failed")
		return nil
	}
	return out
}
