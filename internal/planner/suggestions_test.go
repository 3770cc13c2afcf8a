package planner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tripplan/internal/model"
)

type catalogFunc func(ctx context.Context, lat, lon float64) ([]model.Suggestion, error)

func (f catalogFunc) FindNearby(ctx context.Context, lat, lon float64) ([]model.Suggestion, error) {
	return f(ctx, lat, lon)
}

func TestRefreshSuggestionsReplacesList(t *testing.T) {
	ctx := context.Background()
	calls := 0
	cat := catalogFunc(func(_ context.Context, lat, lon float64) ([]model.Suggestion, error) {
		calls++
		return []model.Suggestion{{Name: "Fort", Cost: 25}}, nil
	})
	p := newPlanner(t, newGateway(t), Options{Catalog: cat})

	gen := p.BeginSuggestions()
	p.ApplySuggestions(gen, []model.Suggestion{{Name: "old"}, {Name: "older"}})

	assert.True(t, p.RefreshSuggestions(ctx, 18.52, 73.85))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []model.Suggestion{{Name: "Fort", Cost: 25}}, p.Suggestions())
	assert.False(t, p.Loading())
}

func TestRefreshSuggestionsDegradesOnFailure(t *testing.T) {
	cat := catalogFunc(func(context.Context, float64, float64) ([]model.Suggestion, error) {
		return nil, errors.New("boom")
	})
	p := newPlanner(t, newGateway(t), Options{Catalog: cat})
	gen := p.BeginSuggestions()
	p.ApplySuggestions(gen, []model.Suggestion{{Name: "old"}})

	assert.True(t, p.RefreshSuggestions(context.Background(), 1, 2))
	assert.Empty(t, p.Suggestions())
	assert.False(t, p.Loading())
}

func TestRefreshSuggestionsWithoutCatalog(t *testing.T) {
	p := newPlanner(t, newGateway(t), Options{})
	assert.True(t, p.RefreshSuggestions(context.Background(), 1, 2))
	assert.Empty(t, p.Suggestions())
}

func TestStaleSuggestionsAreDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	cat := catalogFunc(func(_ context.Context, lat, _ float64) ([]model.Suggestion, error) {
		if lat == 1 {
			once.Do(func() { close(started) })
			<-release
			return []model.Suggestion{{Name: "stale"}}, nil
		}
		return []model.Suggestion{{Name: "fresh"}}, nil
	})
	p := newPlanner(t, newGateway(t), Options{Catalog: cat})

	done := make(chan bool)
	go func() { done <- p.RefreshSuggestions(context.Background(), 1, 1) }()

	<-started
	assert.True(t, p.Loading())
	require.True(t, p.RefreshSuggestions(context.Background(), 2, 2))
	close(release)

	assert.False(t, <-done, "older fetch must not apply")
	assert.Equal(t, []model.Suggestion{{Name: "fresh"}}, p.Suggestions())
	assert.False(t, p.Loading())
}

func TestApplySuggestionsRequiresLatestGeneration(t *testing.T) {
	p := newPlanner(t, newGateway(t), Options{})
	first := p.BeginSuggestions()
	second := p.BeginSuggestions()
	assert.Greater(t, second, first)

	assert.False(t, p.ApplySuggestions(first, []model.Suggestion{{Name: "a"}}))
	assert.True(t, p.Loading())
	assert.True(t, p.ApplySuggestions(second, []model.Suggestion{{Name: "b"}}))
	assert.Equal(t, "b", p.Suggestions()[0].Name)
}
