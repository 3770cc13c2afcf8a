// Package planner keeps the itinerary and budget lists in step with each
// other and with storage. Every mutation reloads both lists from the store,
// applies the change, writes it back, and only then publishes a Change on
// the bus so that other planners can reconcile.
package planner

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tripplan/internal/logging"
	"github.com/theirongolddev/tripplan/internal/model"
	"github.com/theirongolddev/tripplan/internal/store"
)

// Input errors. The operation that returns one leaves state unchanged.
var (
	ErrEmptyName       = errors.New("planner: name is empty")
	ErrInvalidAmount   = errors.New("planner: invalid amount")
	ErrIndexOutOfRange = errors.New("planner: index out of range")
)

// Store is the persistence the planner needs. *store.Gateway satisfies it.
type Store interface {
	LoadDestination(ctx context.Context) (model.Destination, bool, error)
	SaveDestination(ctx context.Context, d model.Destination) error
	LoadItinerary(ctx context.Context) ([]model.ItineraryEntry, error)
	SaveItinerary(ctx context.Context, entries []model.ItineraryEntry) error
	LoadBudget(ctx context.Context) ([]model.BudgetEntry, error)
	SaveBudget(ctx context.Context, entries []model.BudgetEntry) error
	SavePlan(ctx context.Context, itinerary []model.ItineraryEntry, budget []model.BudgetEntry) error
	Clear(ctx context.Context) error
}

// Catalog finds suggestions near a point. *catalog.Client satisfies it.
type Catalog interface {
	FindNearby(ctx context.Context, lat, lon float64) ([]model.Suggestion, error)
}

// Options wires a Planner's collaborators. Only the store is required.
type Options struct {
	Catalog Catalog
	Bus     *Bus
	Logger  *zerolog.Logger
	// Name tags published changes. Defaults to a random ID.
	Name string
}

// Planner is one view's handle on the trip plan.
type Planner struct {
	store   Store
	catalog Catalog
	bus     *Bus
	log     *zerolog.Logger
	name    string

	mu          sync.Mutex
	itinerary   []model.ItineraryEntry
	budget      []model.BudgetEntry
	suggestions []model.Suggestion
	loading     bool
	generation  uint64
}

// New returns a planner over st. Call Load to read the stored lists.
func New(st Store, opts Options) *Planner {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	name := opts.Name
	if name == "" {
		name = model.NewID()
	}
	return &Planner{
		store:     st,
		catalog:   opts.Catalog,
		bus:       opts.Bus,
		log:       log,
		name:      name,
		itinerary: []model.ItineraryEntry{},
		budget:    []model.BudgetEntry{},
	}
}

// Name returns the tag this planner puts on its changes.
func (p *Planner) Name() string { return p.name }

// Load refreshes the in-memory lists from the store.
func (p *Planner) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _, err := p.reload(ctx)
	return err
}

// Itinerary returns a copy of the last loaded itinerary.
func (p *Planner) Itinerary() []model.ItineraryEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.itinerary)
}

// Budget returns a copy of the last loaded budget.
func (p *Planner) Budget() []model.BudgetEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.budget)
}

// BudgetTotal sums the budget amounts.
func (p *Planner) BudgetTotal() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := decimal.Zero
	for _, b := range p.budget {
		total = total.Add(decimal.NewFromFloat(b.Amount))
	}
	return total
}

// AddEntry appends an itinerary entry and its linked budget entry, drops
// any suggestion with the same name, and publishes a budget change.
func (p *Planner) AddEntry(ctx context.Context, name string, cost float64, address, image string) (model.ItineraryEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ItineraryEntry{}, ErrEmptyName
	}
	if !validAmount(cost) {
		return model.ItineraryEntry{}, ErrInvalidAmount
	}

	p.mu.Lock()
	itinerary, budget, err := p.reload(ctx)
	if err != nil {
		p.mu.Unlock()
		return model.ItineraryEntry{}, err
	}

	entry := model.ItineraryEntry{
		ID:      model.NewID(),
		Name:    name,
		Address: address,
		Image:   image,
	}
	entry.SetCost(cost)
	itinerary = append(itinerary, entry)
	budget = append(budget, model.BudgetEntry{
		ID:          model.NewID(),
		ItineraryID: entry.ID,
		Name:        name,
		Amount:      cost,
	})

	if err := p.store.SavePlan(ctx, itinerary, budget); err != nil {
		p.mu.Unlock()
		return model.ItineraryEntry{}, err
	}
	p.itinerary, p.budget = itinerary, budget
	p.suggestions = slices.DeleteFunc(p.suggestions, func(s model.Suggestion) bool {
		return s.Name == name
	})
	p.mu.Unlock()

	p.publish(Change{Key: store.KeyBudget, Kind: KindAdded, EntryID: entry.ID})
	return entry, nil
}

// AddExpense appends a standalone budget entry.
func (p *Planner) AddExpense(ctx context.Context, name string, amount float64) (model.BudgetEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.BudgetEntry{}, ErrEmptyName
	}
	if !validAmount(amount) || amount == 0 {
		return model.BudgetEntry{}, ErrInvalidAmount
	}

	p.mu.Lock()
	itinerary, budget, err := p.reload(ctx)
	if err != nil {
		p.mu.Unlock()
		return model.BudgetEntry{}, err
	}
	entry := model.BudgetEntry{ID: model.NewID(), Name: name, Amount: amount, IsCustom: true}
	budget = append(budget, entry)
	if err := p.store.SaveBudget(ctx, budget); err != nil {
		p.mu.Unlock()
		return model.BudgetEntry{}, err
	}
	p.itinerary, p.budget = itinerary, budget
	p.mu.Unlock()

	p.publish(Change{Key: store.KeyBudget, Kind: KindAdded, EntryID: entry.ID})
	return entry, nil
}

// EditBudgetAmount sets the amount of budget entry i and copies it to the
// cost of every linked itinerary entry.
func (p *Planner) EditBudgetAmount(ctx context.Context, i int, amount float64) error {
	if !validAmount(amount) {
		return ErrInvalidAmount
	}

	p.mu.Lock()
	itinerary, budget, err := p.reload(ctx)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if i < 0 || i >= len(budget) {
		p.mu.Unlock()
		return ErrIndexOutOfRange
	}

	budget[i].Amount = amount
	links := model.NewLinks(budget)
	for j := range itinerary {
		if links.Match(budget[i], itinerary[j]) {
			itinerary[j].SetCost(amount)
		}
	}

	if err := p.store.SavePlan(ctx, itinerary, budget); err != nil {
		p.mu.Unlock()
		return err
	}
	p.itinerary, p.budget = itinerary, budget
	id := budget[i].ID
	p.mu.Unlock()

	p.publish(Change{Key: store.KeyBudget, Kind: KindUpdated, EntryID: id})
	return nil
}

// RemoveBudgetEntry deletes budget entry i. Linked itinerary costs are left
// as they are.
func (p *Planner) RemoveBudgetEntry(ctx context.Context, i int) error {
	p.mu.Lock()
	itinerary, budget, err := p.reload(ctx)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if i < 0 || i >= len(budget) {
		p.mu.Unlock()
		return ErrIndexOutOfRange
	}

	id := budget[i].ID
	budget = slices.Delete(budget, i, i+1)
	if err := p.store.SaveBudget(ctx, budget); err != nil {
		p.mu.Unlock()
		return err
	}
	p.itinerary, p.budget = itinerary, budget
	p.mu.Unlock()

	p.publish(Change{Key: store.KeyBudget, Kind: KindRemoved, EntryID: id})
	return nil
}

// RemoveItineraryEntry deletes itinerary entry i together with every budget
// entry linked to it.
func (p *Planner) RemoveItineraryEntry(ctx context.Context, i int) error {
	p.mu.Lock()
	itinerary, budget, err := p.reload(ctx)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if i < 0 || i >= len(itinerary) {
		p.mu.Unlock()
		return ErrIndexOutOfRange
	}

	removed := itinerary[i]
	links := model.NewLinks(budget)
	itinerary = slices.Delete(itinerary, i, i+1)
	budget = slices.DeleteFunc(budget, func(b model.BudgetEntry) bool {
		return links.Match(b, removed)
	})

	if err := p.store.SavePlan(ctx, itinerary, budget); err != nil {
		p.mu.Unlock()
		return err
	}
	p.itinerary, p.budget = itinerary, budget
	p.mu.Unlock()

	p.publish(Change{Key: store.KeyBudget, Kind: KindRemoved, EntryID: removed.ID})
	return nil
}

// ToggleComplete flips the completed flag of itinerary entry i. Only the
// itinerary is written.
func (p *Planner) ToggleComplete(ctx context.Context, i int) error {
	p.mu.Lock()
	itinerary, budget, err := p.reload(ctx)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if i < 0 || i >= len(itinerary) {
		p.mu.Unlock()
		return ErrIndexOutOfRange
	}

	itinerary[i].Completed = !itinerary[i].Completed
	if err := p.store.SaveItinerary(ctx, itinerary); err != nil {
		p.mu.Unlock()
		return err
	}
	p.itinerary, p.budget = itinerary, budget
	id := itinerary[i].ID
	p.mu.Unlock()

	p.publish(Change{Key: store.KeyItinerary, Kind: KindToggled, EntryID: id})
	return nil
}

// SyncFromBudget copies each itinerary entry's cost from the first budget
// entry linked to it. Entries claimed by an itinerary ID ignore same-named
// custom expenses. The itinerary is written only when a cost changed,
// so repeated calls settle.
func (p *Planner) SyncFromBudget(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	itinerary, budget, err := p.reload(ctx)
	if err != nil {
		return err
	}

	links := model.NewLinks(budget)
	changed := false
	for j := range itinerary {
		k := slices.IndexFunc(budget, func(b model.BudgetEntry) bool {
			return links.Match(b, itinerary[j])
		})
		if k < 0 {
			continue
		}
		amount := budget[k].Amount
		if itinerary[j].Cost != nil && *itinerary[j].Cost == amount {
			continue
		}
		itinerary[j].SetCost(amount)
		changed = true
	}
	if !changed {
		return nil
	}

	if err := p.store.SaveItinerary(ctx, itinerary); err != nil {
		return err
	}
	p.itinerary = itinerary
	p.log.Debug().Str("planner", p.name).Msg("itinerary costs synced from budget")
	return nil
}

// HandleChange reacts to a change from the bus. Budget changes published by
// other planners trigger SyncFromBudget; everything else is ignored. It
// reports whether a sync ran.
func (p *Planner) HandleChange(ctx context.Context, c Change) (bool, error) {
	if c.Source == p.name || !c.BudgetChanged() {
		return false, nil
	}
	return true, p.SyncFromBudget(ctx)
}

// SelectDestination stores d as the current destination.
func (p *Planner) SelectDestination(ctx context.Context, d model.Destination) error {
	if err := p.store.SaveDestination(ctx, d); err != nil {
		return err
	}
	p.publish(Change{Key: store.KeyDestination, Kind: KindSelected, Destination: &d})
	return nil
}

// CurrentDestination returns the stored destination, if any.
func (p *Planner) CurrentDestination(ctx context.Context) (model.Destination, bool, error) {
	return p.store.LoadDestination(ctx)
}

// ClearAll removes all stored trip state and forgets suggestions. A
// suggestion fetch still in flight is discarded when it returns.
func (p *Planner) ClearAll(ctx context.Context) error {
	p.mu.Lock()
	if err := p.store.Clear(ctx); err != nil {
		p.mu.Unlock()
		return err
	}
	p.itinerary = []model.ItineraryEntry{}
	p.budget = []model.BudgetEntry{}
	p.suggestions = nil
	p.loading = false
	p.generation++
	p.mu.Unlock()

	p.publish(Change{Kind: KindCleared})
	return nil
}

// reload reads both lists and assigns IDs to entries stored without one.
// Callers hold p.mu. The snapshot is updated so readers see fresh state
// even when the caller later rejects its input.
func (p *Planner) reload(ctx context.Context) ([]model.ItineraryEntry, []model.BudgetEntry, error) {
	itinerary, err := p.store.LoadItinerary(ctx)
	if err != nil {
		return nil, nil, err
	}
	budget, err := p.store.LoadBudget(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range itinerary {
		if itinerary[i].ID == "" {
			itinerary[i].ID = model.NewID()
		}
	}
	for i := range budget {
		if budget[i].ID == "" {
			budget[i].ID = model.NewID()
		}
	}
	p.itinerary, p.budget = itinerary, budget
	return slices.Clone(itinerary), slices.Clone(budget), nil
}

func (p *Planner) publish(c Change) {
	if p.bus == nil {
		return
	}
	c.Source = p.name
	p.bus.Publish(c)
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
