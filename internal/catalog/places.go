package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/tripplan/internal/model"
)

// CategoryGroups are the Geoapify category filters queried by FindNearby,
// one request per group.
var CategoryGroups = []string{
	"tourism.attraction",
	"accommodation.hotel",
	"catering.restaurant",
	"religion.place_of_worship.hinduism,religion.place_of_worship,place_of_worship.temple",
}

// maxEnrichWorkers bounds concurrent image lookups within one category.
const maxEnrichWorkers = 4

// FindNearby returns suggestions around (lat, lon): up to PerCategoryLimit
// places for each of CategoryGroups within Radius, each with a photo and
// an estimated cost. A failing category contributes nothing. Result order
// is randomized.
//
// The only error returned is ctx's, when it ends before the search does.
func (c *Client) FindNearby(ctx context.Context, lat, lon float64) ([]model.Suggestion, error) {
	if lat == 0 || lon == 0 {
		c.log.Warn().Float64("lat", lat).Float64("lon", lon).Msg("invalid coordinates for nearby search")
		return nil, nil
	}
	if c.opts.GeoapifyKey == "" {
		c.log.Warn().Msg("geoapify api key not configured; skipping nearby search")
		return nil, nil
	}

	perCategory := make([][]model.Suggestion, len(CategoryGroups))

	var g errgroup.Group
	for i, category := range CategoryGroups {
		g.Go(func() error {
			found, err := c.fetchCategory(ctx, category, lat, lon)
			if err != nil {
				c.log.Warn().Err(err).Str("category", category).Msg("places fetch failed")
				return nil
			}
			perCategory[i] = found
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []model.Suggestion
	for _, s := range perCategory {
		all = append(all, s...)
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all, nil
}

func (c *Client) fetchCategory(ctx context.Context, category string, lat, lon float64) ([]model.Suggestion, error) {
	params := url.Values{}
	params.Set("categories", category)
	params.Set("filter", fmt.Sprintf("circle:%s,%s,%d",
		strconv.FormatFloat(lon, 'f', -1, 64),
		strconv.FormatFloat(lat, 'f', -1, 64),
		c.opts.Radius))
	params.Set("limit", strconv.Itoa(c.opts.PerCategoryLimit))
	params.Set("apiKey", c.opts.GeoapifyKey)

	body, err := c.get(ctx, c.opts.PlacesURL, params)
	if err != nil {
		return nil, err
	}

	var raw placesResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parsing places: %w", err)
	}
	if len(raw.Features) == 0 {
		c.log.Debug().Str("category", category).Msg("no places in category")
		return nil, nil
	}

	features := raw.Features
	if len(features) > c.opts.PerCategoryLimit {
		features = features[:c.opts.PerCategoryLimit]
	}

	out := make([]model.Suggestion, len(features))
	var g errgroup.Group
	g.SetLimit(maxEnrichWorkers)
	for i, f := range features {
		g.Go(func() error {
			out[i] = c.suggestionFrom(ctx, f.Properties)
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

func (c *Client) suggestionFrom(ctx context.Context, p placeProperties) model.Suggestion {
	name := p.Name
	if name == "" {
		name = "Unnamed Place"
	}
	joined := strings.Join(p.Categories, ",")

	description := p.Name
	if description == "" {
		description = "Popular tourist spot nearby."
	}

	website := p.Website
	if website == "" {
		website = string(p.Datasource.Raw.Website)
	}
	phone := string(p.Contact.Phone)
	if phone == "" {
		phone = string(p.Datasource.Raw.Phone)
	}

	return model.Suggestion{
		Name:        name,
		Type:        CategoryLabel(p.Categories),
		Address:     firstNonEmpty(p.Formatted, p.AddressLine2, p.City, "Unknown area"),
		Description: description,
		Image:       c.LookupImage(ctx, name, joined),
		Website:     website,
		Phone:       phone,
		Cost:        EstimateCost(joined),
	}
}

// CategoryLabel maps Geoapify categories to a display label.
func CategoryLabel(categories []string) string {
	joined := strings.ToLower(strings.Join(categories, ","))

	switch {
	case strings.Contains(joined, "place_of_worship") || strings.Contains(joined, "temple"):
		return "Temple / Spiritual Place"
	case strings.Contains(joined, "hotel") || strings.Contains(joined, "accommodation"):
		return "Hotel / Stay"
	case strings.Contains(joined, "restaurant") || strings.Contains(joined, "catering"):
		return "Restaurant / Eatery"
	case strings.Contains(joined, "attraction") || strings.Contains(joined, "tourism"):
		return "Tourist Attraction"
	}
	return "Famous Place"
}

// EstimateCost returns a rough per-visit cost for a comma-joined category
// string. Unknown categories get a random value in [10, 70).
func EstimateCost(category string) float64 {
	category = strings.ToLower(category)

	switch {
	case strings.Contains(category, "hotel"):
		return 120
	case strings.Contains(category, "restaurant"):
		return 40
	case strings.Contains(category, "temple") || strings.Contains(category, "place_of_worship"):
		return 10
	case strings.Contains(category, "attraction"):
		return 25
	}
	return float64(rand.IntN(60) + 10)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
