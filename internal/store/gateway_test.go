package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tripplan/internal/model"
)

// backends returns a fresh gateway per supported backend.
func backends(t *testing.T) map[string]*Gateway {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "trip.db"))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	gws := map[string]*Gateway{
		"sqlite": New(db, nil),
		"redis":  New(NewRedis(rc, "tripplan:"), nil),
	}
	for _, g := range gws {
		t.Cleanup(func() { _ = g.Close() })
	}
	return gws
}

func cost(v float64) *float64 { return &v }

func TestGatewayDefaultsWhenAbsent(t *testing.T) {
	ctx := context.Background()
	for name, g := range backends(t) {
		t.Run(name, func(t *testing.T) {
			d, ok, err := g.LoadDestination(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.True(t, d.IsZero())

			it, err := g.LoadItinerary(ctx)
			require.NoError(t, err)
			assert.NotNil(t, it)
			assert.Empty(t, it)

			bu, err := g.LoadBudget(ctx)
			require.NoError(t, err)
			assert.NotNil(t, bu)
			assert.Empty(t, bu)
		})
	}
}

func TestGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	dest := model.Destination{Name: "Jaipur", Country: "India", Lat: 26.91, Lon: 75.79}
	itinerary := []model.ItineraryEntry{
		{ID: "i1", Name: "Amber Fort", Cost: cost(25), Address: "Devisinghpura", Image: "https://img/1"},
		{ID: "i2", Name: "Walk", Completed: true},
	}
	budget := []model.BudgetEntry{
		{ID: "b1", ItineraryID: "i1", Name: "Amber Fort", Amount: 25},
		{ID: "b2", Name: "Taxi", Amount: 800, IsCustom: true},
	}

	for name, g := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, g.SaveDestination(ctx, dest))
			require.NoError(t, g.SaveItinerary(ctx, itinerary))
			require.NoError(t, g.SaveBudget(ctx, budget))

			gotDest, ok, err := g.LoadDestination(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, dest, gotDest)

			gotIt, err := g.LoadItinerary(ctx)
			require.NoError(t, err)
			assert.Equal(t, itinerary, gotIt)

			gotBu, err := g.LoadBudget(ctx)
			require.NoError(t, err)
			assert.Equal(t, budget, gotBu)
		})
	}
}

func TestGatewayMalformedDocumentsFallBack(t *testing.T) {
	ctx := context.Background()
	for name, g := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, g.backend.PutMany(ctx, map[string][]byte{
				KeyDestination: []byte(`{"name":`),
				KeyItinerary:   []byte(`[{"name": 42}]`),
				KeyBudget:      []byte(`not json`),
			}))

			_, ok, err := g.LoadDestination(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			it, err := g.LoadItinerary(ctx)
			require.NoError(t, err)
			assert.Empty(t, it)

			bu, err := g.LoadBudget(ctx)
			require.NoError(t, err)
			assert.Empty(t, bu)
		})
	}
}

func TestGatewaySavePlanAndClear(t *testing.T) {
	ctx := context.Background()
	for name, g := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, g.SaveDestination(ctx, model.Destination{Name: "Goa", Lat: 15.3, Lon: 74.1}))
			require.NoError(t, g.SavePlan(ctx,
				[]model.ItineraryEntry{{ID: "i1", Name: "Beach"}},
				[]model.BudgetEntry{{ID: "b1", ItineraryID: "i1", Name: "Beach"}},
			))

			it, err := g.LoadItinerary(ctx)
			require.NoError(t, err)
			require.Len(t, it, 1)
			bu, err := g.LoadBudget(ctx)
			require.NoError(t, err)
			require.Len(t, bu, 1)

			require.NoError(t, g.Clear(ctx))

			_, ok, err := g.LoadDestination(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
			it, err = g.LoadItinerary(ctx)
			require.NoError(t, err)
			assert.Empty(t, it)
			bu, err = g.LoadBudget(ctx)
			require.NoError(t, err)
			assert.Empty(t, bu)
		})
	}
}

func TestGatewayNilListsPersistAsEmptyArrays(t *testing.T) {
	ctx := context.Background()
	for name, g := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, g.SaveItinerary(ctx, nil))
			raw, ok, err := g.backend.Get(ctx, KeyItinerary)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "[]", string(raw))
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "etcd"}, nil)
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRedisKeysArePrefixed(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	g := New(NewRedis(rc, "trip:"), nil)
	defer func() { _ = g.Close() }()

	require.NoError(t, g.SaveBudget(context.Background(), []model.BudgetEntry{{Name: "Taxi", Amount: 800}}))
	assert.True(t, mr.Exists("trip:"+KeyBudget))
	assert.False(t, mr.Exists(KeyBudget))
}
