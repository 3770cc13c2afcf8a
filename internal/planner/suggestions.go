package planner

import (
	"context"
	"slices"

	"github.com/theirongolddev/tripplan/internal/model"
)

// BeginSuggestions marks a suggestion fetch as started and returns its
// generation. Only the latest generation may apply results.
func (p *Planner) BeginSuggestions() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.loading = true
	return p.generation
}

// ApplySuggestions replaces the suggestion list with list if gen is still
// the latest fetch. It reports whether the list was applied.
func (p *Planner) ApplySuggestions(gen uint64, list []model.Suggestion) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return false
	}
	p.suggestions = slices.Clone(list)
	p.loading = false
	return true
}

// RefreshSuggestions replaces the suggestion list with places near
// (lat, lon). Catalog failures leave an empty list. A result that arrives
// after a newer refresh has started is dropped.
func (p *Planner) RefreshSuggestions(ctx context.Context, lat, lon float64) bool {
	gen := p.BeginSuggestions()
	if p.catalog == nil {
		return p.ApplySuggestions(gen, nil)
	}

	list, err := p.catalog.FindNearby(ctx, lat, lon)
	if err != nil {
		p.log.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("suggestion fetch failed")
		list = nil
	}
	applied := p.ApplySuggestions(gen, list)
	if !applied {
		p.log.Debug().Uint64("generation", gen).Msg("discarding stale suggestions")
	}
	return applied
}

// Suggestions returns a copy of the current suggestion list.
func (p *Planner) Suggestions() []model.Suggestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.suggestions)
}

// Loading reports whether a suggestion fetch is in flight.
func (p *Planner) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}
