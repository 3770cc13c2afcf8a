// Package store is the persistence gateway for trip state: three JSON
// documents (destination, itinerary, budget) kept in a durable key-value
// backend. It enforces no invariants of its own.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/tripplan/internal/logging"
	"github.com/theirongolddev/tripplan/internal/model"
)

// Logical document keys.
const (
	KeyDestination = "trip_destination"
	KeyItinerary   = "trip_itinerary"
	KeyBudget      = "trip_budget"
)

// AllKeys lists every document the gateway manages.
var AllKeys = []string{KeyDestination, KeyItinerary, KeyBudget}

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("store: unknown backend")

// Backend is a raw key-value store. PutMany and Delete must apply all keys
// together or not at all.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	PutMany(ctx context.Context, docs map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Options selects and configures a backend for Open.
type Options struct {
	Backend     string // "sqlite" (default) or "redis"
	SQLitePath  string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// Gateway encodes trip documents as JSON on top of a Backend.
type Gateway struct {
	backend Backend
	log     *zerolog.Logger
}

// New wraps backend. A nil logger discards output.
func New(backend Backend, log *zerolog.Logger) *Gateway {
	if log == nil {
		log = logging.Nop()
	}
	return &Gateway{backend: backend, log: log}
}

// Open opens the backend described by opts.
func Open(ctx context.Context, opts Options, log *zerolog.Logger) (*Gateway, error) {
	switch opts.Backend {
	case "", "sqlite":
		db, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return New(db, log), nil
	case "redis":
		r, err := OpenRedis(ctx, opts.RedisAddr, opts.RedisDB, opts.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return New(r, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// Close releases the backend.
func (g *Gateway) Close() error {
	return g.backend.Close()
}

// Save stores v as JSON under key.
func (g *Gateway) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return g.backend.PutMany(ctx, map[string][]byte{key: data})
}

// Load decodes the document under key into v. It reports false when the
// key is absent or holds malformed JSON; v must be ignored in that case.
// Only backend I/O failures are returned as errors.
func (g *Gateway) Load(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := g.backend.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		g.log.Debug().Err(err).Str("key", key).Msg("discarding malformed document")
		return false, nil
	}
	return true, nil
}

// SaveDestination stores the selected destination.
func (g *Gateway) SaveDestination(ctx context.Context, d model.Destination) error {
	return g.Save(ctx, KeyDestination, d)
}

// LoadDestination returns the stored destination, or the zero value and
// false when none is stored.
func (g *Gateway) LoadDestination(ctx context.Context) (model.Destination, bool, error) {
	var d model.Destination
	ok, err := g.Load(ctx, KeyDestination, &d)
	if err != nil || !ok {
		return model.Destination{}, false, err
	}
	return d, !d.IsZero(), nil
}

// SaveItinerary stores the itinerary list.
func (g *Gateway) SaveItinerary(ctx context.Context, entries []model.ItineraryEntry) error {
	return g.Save(ctx, KeyItinerary, nonNil(entries))
}

// LoadItinerary returns the stored itinerary, or an empty list.
func (g *Gateway) LoadItinerary(ctx context.Context) ([]model.ItineraryEntry, error) {
	var entries []model.ItineraryEntry
	ok, err := g.Load(ctx, KeyItinerary, &entries)
	if err != nil || !ok {
		return []model.ItineraryEntry{}, err
	}
	return nonNil(entries), nil
}

// SaveBudget stores the budget list.
func (g *Gateway) SaveBudget(ctx context.Context, entries []model.BudgetEntry) error {
	return g.Save(ctx, KeyBudget, nonNil(entries))
}

// LoadBudget returns the stored budget, or an empty list.
func (g *Gateway) LoadBudget(ctx context.Context) ([]model.BudgetEntry, error) {
	var entries []model.BudgetEntry
	ok, err := g.Load(ctx, KeyBudget, &entries)
	if err != nil || !ok {
		return []model.BudgetEntry{}, err
	}
	return nonNil(entries), nil
}

// SavePlan writes itinerary and budget together in one backend transaction.
func (g *Gateway) SavePlan(ctx context.Context, itinerary []model.ItineraryEntry, budget []model.BudgetEntry) error {
	it, err := json.Marshal(nonNil(itinerary))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", KeyItinerary, err)
	}
	bu, err := json.Marshal(nonNil(budget))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", KeyBudget, err)
	}
	return g.backend.PutMany(ctx, map[string][]byte{
		KeyItinerary: it,
		KeyBudget:    bu,
	})
}

// Clear removes all trip documents.
func (g *Gateway) Clear(ctx context.Context) error {
	return g.backend.Delete(ctx, AllKeys...)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
