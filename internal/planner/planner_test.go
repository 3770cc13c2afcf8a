package planner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tripplan/internal/model"
	"github.com/theirongolddev/tripplan/internal/store"
)

func newGateway(t *testing.T) *store.Gateway {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "trip.db"))
	require.NoError(t, err)
	g := store.New(db, nil)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func newPlanner(t *testing.T, g *store.Gateway, opts Options) *Planner {
	t.Helper()
	p := New(g, opts)
	require.NoError(t, p.Load(context.Background()))
	return p
}

func costOf(t *testing.T, e model.ItineraryEntry) float64 {
	t.Helper()
	require.NotNil(t, e.Cost, "entry %q has no cost", e.Name)
	return *e.Cost
}

func TestAddEntryAppendsLinkedPair(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	p := newPlanner(t, g, Options{})

	entry, err := p.AddEntry(ctx, "  Fort  ", 120, "Hill Rd", "img.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Fort", entry.Name)
	assert.NotEmpty(t, entry.ID)

	it, err := g.LoadItinerary(ctx)
	require.NoError(t, err)
	bu, err := g.LoadBudget(ctx)
	require.NoError(t, err)
	require.Len(t, it, 1)
	require.Len(t, bu, 1)

	assert.False(t, it[0].Completed)
	assert.Equal(t, "Hill Rd", it[0].Address)
	assert.Equal(t, 120.0, costOf(t, it[0]))
	assert.Equal(t, 120.0, bu[0].Amount)
	assert.Equal(t, it[0].ID, bu[0].ItineraryID)
	assert.False(t, bu[0].IsCustom)

	assert.Equal(t, it, p.Itinerary())
	assert.Equal(t, bu, p.Budget())
}

func TestAddEntryZeroCost(t *testing.T) {
	ctx := context.Background()
	p := newPlanner(t, newGateway(t), Options{})

	_, err := p.AddEntry(ctx, "Walk", 0, "", "")
	require.NoError(t, err)
	require.Len(t, p.Budget(), 1)
	assert.Zero(t, p.Budget()[0].Amount)
}

func TestInvalidInputLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	bus := NewBus()
	p := newPlanner(t, g, Options{Bus: bus})
	_, err := p.AddEntry(ctx, "Taxi", 800, "", "")
	require.NoError(t, err)

	ch, unsub := bus.Subscribe(8)
	defer unsub()

	_, err = p.AddEntry(ctx, "   ", 10, "", "")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = p.AddEntry(ctx, "Boat", -1, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = p.AddExpense(ctx, "Snacks", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = p.AddExpense(ctx, "", 5)
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.ErrorIs(t, p.EditBudgetAmount(ctx, 3, 5), ErrIndexOutOfRange)
	assert.ErrorIs(t, p.EditBudgetAmount(ctx, 0, -5), ErrInvalidAmount)
	assert.ErrorIs(t, p.RemoveBudgetEntry(ctx, -1), ErrIndexOutOfRange)
	assert.ErrorIs(t, p.RemoveItineraryEntry(ctx, 1), ErrIndexOutOfRange)
	assert.ErrorIs(t, p.ToggleComplete(ctx, 1), ErrIndexOutOfRange)

	it, err := g.LoadItinerary(ctx)
	require.NoError(t, err)
	bu, err := g.LoadBudget(ctx)
	require.NoError(t, err)
	require.Len(t, it, 1)
	require.Len(t, bu, 1)
	assert.Equal(t, 800.0, bu[0].Amount)
	assert.Len(t, ch, 0, "rejected input must not publish")
}

func TestAddEntryDropsMatchingSuggestion(t *testing.T) {
	ctx := context.Background()
	p := newPlanner(t, newGateway(t), Options{})

	gen := p.BeginSuggestions()
	require.True(t, p.ApplySuggestions(gen, []model.Suggestion{
		{Name: "Shaniwar Wada", Cost: 25},
		{Name: "Hotel Blue", Cost: 120},
	}))

	_, err := p.AddEntry(ctx, "Shaniwar Wada", 25, "", "")
	require.NoError(t, err)

	got := p.Suggestions()
	require.Len(t, got, 1)
	assert.Equal(t, "Hotel Blue", got[0].Name)
}

func TestTaxiScenario(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	bus := NewBus()
	budgetView := newPlanner(t, g, Options{Bus: bus, Name: "budget"})
	itineraryView := newPlanner(t, g, Options{Bus: bus, Name: "itinerary"})

	ch, unsub := bus.Subscribe(8)
	defer unsub()

	_, err := itineraryView.AddEntry(ctx, "Taxi", 800, "", "")
	require.NoError(t, err)
	require.NoError(t, budgetView.Load(ctx))
	require.NoError(t, budgetView.EditBudgetAmount(ctx, 0, 950))

	var last Change
	for range 2 {
		select {
		case last = <-ch:
		case <-time.After(time.Second):
			t.Fatal("no change published")
		}
	}
	assert.Equal(t, "budget", last.Source)
	assert.Equal(t, store.KeyBudget, last.Key)

	synced, err := itineraryView.HandleChange(ctx, last)
	require.NoError(t, err)
	assert.True(t, synced)

	it := itineraryView.Itinerary()
	require.Len(t, it, 1)
	assert.Equal(t, "Taxi", it[0].Name)
	assert.Equal(t, 950.0, costOf(t, it[0]))
}

func TestMuseumScenario(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	p := newPlanner(t, g, Options{})

	_, err := p.AddEntry(ctx, "Museum", 25, "Main St", "https://img.example/museum.jpg")
	require.NoError(t, err)
	require.NoError(t, p.RemoveItineraryEntry(ctx, 0))

	it, err := g.LoadItinerary(ctx)
	require.NoError(t, err)
	bu, err := g.LoadBudget(ctx)
	require.NoError(t, err)
	assert.Empty(t, it)
	for _, b := range bu {
		assert.NotEqual(t, "Museum", b.Name)
	}
}

func TestEditBudgetAmountIdempotent(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	p := newPlanner(t, g, Options{})
	_, err := p.AddEntry(ctx, "Hotel", 100, "", "")
	require.NoError(t, err)

	require.NoError(t, p.EditBudgetAmount(ctx, 0, 140))
	once := struct {
		it []model.ItineraryEntry
		bu []model.BudgetEntry
	}{p.Itinerary(), p.Budget()}

	require.NoError(t, p.EditBudgetAmount(ctx, 0, 140))
	assert.Equal(t, once.it, p.Itinerary())
	assert.Equal(t, once.bu, p.Budget())
	assert.Equal(t, 140.0, costOf(t, p.Itinerary()[0]))
}

func TestEditBudgetAmountFollowsIDNotName(t *testing.T) {
	ctx := context.Background()
	p := newPlanner(t, newGateway(t), Options{})

	_, err := p.AddEntry(ctx, "Museum", 20, "", "")
	require.NoError(t, err)
	_, err = p.AddEntry(ctx, "Museum", 30, "", "")
	require.NoError(t, err)

	require.NoError(t, p.EditBudgetAmount(ctx, 1, 45))

	it := p.Itinerary()
	assert.Equal(t, 20.0, costOf(t, it[0]))
	assert.Equal(t, 45.0, costOf(t, it[1]))
}

func TestLegacyEntriesLinkByName(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	c := 800.0
	require.NoError(t, g.SavePlan(ctx,
		[]model.ItineraryEntry{{Name: "Taxi", Cost: &c}, {Name: "Taxi", Cost: &c}},
		[]model.BudgetEntry{{Name: "Taxi", Amount: 800}},
	))
	p := newPlanner(t, g, Options{})

	require.NoError(t, p.EditBudgetAmount(ctx, 0, 950))
	for _, e := range p.Itinerary() {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, 950.0, costOf(t, e), "every same-named legacy entry follows the edit")
	}

	require.NoError(t, p.RemoveItineraryEntry(ctx, 0))
	assert.Empty(t, p.Budget(), "legacy budget entry removed by name")
	assert.Len(t, p.Itinerary(), 1)
}

func TestCustomExpenseDoesNotShadowLinkedEntry(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	p := newPlanner(t, g, Options{})

	_, err := p.AddExpense(ctx, "Taxi", 50)
	require.NoError(t, err)
	_, err = p.AddEntry(ctx, "Taxi", 800, "", "")
	require.NoError(t, err)
	require.NoError(t, p.EditBudgetAmount(ctx, 1, 950))

	other := newPlanner(t, g, Options{})
	require.NoError(t, other.SyncFromBudget(ctx))
	require.Len(t, other.Itinerary(), 1)
	assert.Equal(t, 950.0, costOf(t, other.Itinerary()[0]))

	require.NoError(t, p.EditBudgetAmount(ctx, 0, 60))
	assert.Equal(t, 950.0, costOf(t, p.Itinerary()[0]), "custom expense edit must not reach the linked entry")

	require.NoError(t, p.RemoveItineraryEntry(ctx, 0))
	bu := p.Budget()
	require.Len(t, bu, 1)
	assert.True(t, bu[0].IsCustom)
	assert.Equal(t, 60.0, bu[0].Amount)
}

func TestRemoveItineraryEntryKeepsOtherSameNamedEntries(t *testing.T) {
	ctx := context.Background()
	p := newPlanner(t, newGateway(t), Options{})

	_, err := p.AddEntry(ctx, "Temple", 10, "", "")
	require.NoError(t, err)
	second, err := p.AddEntry(ctx, "Temple", 15, "", "")
	require.NoError(t, err)

	require.NoError(t, p.RemoveItineraryEntry(ctx, 0))

	bu := p.Budget()
	require.Len(t, bu, 1)
	assert.Equal(t, second.ID, bu[0].ItineraryID)
	assert.Equal(t, 15.0, bu[0].Amount)
}

func TestRemoveItineraryThenSyncDoesNotReintroduceCost(t *testing.T) {
	ctx := context.Background()
	p := newPlanner(t, newGateway(t), Options{})

	_, err := p.AddEntry(ctx, "Museum", 25, "", "")
	require.NoError(t, err)
	_, err = p.AddEntry(ctx, "Cafe", 40, "", "")
	require.NoError(t, err)

	require.NoError(t, p.RemoveItineraryEntry(ctx, 0))
	require.NoError(t, p.SyncFromBudget(ctx))

	it := p.Itinerary()
	require.Len(t, it, 1)
	assert.Equal(t, "Cafe", it[0].Name)
	for _, b := range p.Budget() {
		assert.NotEqual(t, "Museum", b.Name)
	}
}

func TestRemoveBudgetEntryLeavesItineraryCost(t *testing.T) {
	ctx := context.Background()
	p := newPlanner(t, newGateway(t), Options{})

	_, err := p.AddEntry(ctx, "Taxi", 800, "", "")
	require.NoError(t, err)
	require.NoError(t, p.RemoveBudgetEntry(ctx, 0))
	require.NoError(t, p.SyncFromBudget(ctx))

	assert.Empty(t, p.Budget())
	it := p.Itinerary()
	require.Len(t, it, 1)
	assert.Equal(t, 800.0, costOf(t, it[0]))
}

func TestSyncFromBudgetIdempotent(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	p := newPlanner(t, g, Options{})

	_, err := p.AddEntry(ctx, "Hotel", 100, "", "")
	require.NoError(t, err)
	_, err = p.AddEntry(ctx, "Lunch", 40, "", "")
	require.NoError(t, err)

	// Budget edited behind this planner's back.
	bu, err := g.LoadBudget(ctx)
	require.NoError(t, err)
	bu[1].Amount = 55
	require.NoError(t, g.SaveBudget(ctx, bu))

	require.NoError(t, p.SyncFromBudget(ctx))
	first := p.Itinerary()
	assert.Equal(t, 55.0, costOf(t, first[1]))

	require.NoError(t, p.SyncFromBudget(ctx))
	assert.Equal(t, first, p.Itinerary())
}

func TestToggleCompleteWritesItineraryOnly(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	bus := NewBus()
	p := newPlanner(t, g, Options{Bus: bus})
	_, err := p.AddEntry(ctx, "Fort", 25, "", "")
	require.NoError(t, err)

	ch, unsub := bus.Subscribe(4)
	defer unsub()

	require.NoError(t, p.ToggleComplete(ctx, 0))
	assert.True(t, p.Itinerary()[0].Completed)
	require.NoError(t, p.ToggleComplete(ctx, 0))
	assert.False(t, p.Itinerary()[0].Completed)

	c := <-ch
	assert.Equal(t, store.KeyItinerary, c.Key)
	assert.False(t, c.BudgetChanged())
}

func TestAddExpenseAndTotal(t *testing.T) {
	ctx := context.Background()
	p := newPlanner(t, newGateway(t), Options{})

	e, err := p.AddExpense(ctx, " Snacks ", 0.1)
	require.NoError(t, err)
	assert.Equal(t, "Snacks", e.Name)
	assert.True(t, e.IsCustom)
	assert.Empty(t, e.ItineraryID)

	_, err = p.AddExpense(ctx, "Water", 0.2)
	require.NoError(t, err)

	assert.Empty(t, p.Itinerary())
	assert.Equal(t, "0.3", p.BudgetTotal().String())
}

func TestHandleChangeIgnoresOwnAndNonBudgetChanges(t *testing.T) {
	ctx := context.Background()
	p := newPlanner(t, newGateway(t), Options{Name: "me"})

	synced, err := p.HandleChange(ctx, Change{Key: store.KeyBudget, Source: "me"})
	require.NoError(t, err)
	assert.False(t, synced)

	synced, err = p.HandleChange(ctx, Change{Key: store.KeyItinerary, Source: "other"})
	require.NoError(t, err)
	assert.False(t, synced)

	synced, err = p.HandleChange(ctx, Change{Kind: KindCleared, Source: "other"})
	require.NoError(t, err)
	assert.True(t, synced)
}

func TestSelectDestinationPublishes(t *testing.T) {
	ctx := context.Background()
	bus := NewBus()
	p := newPlanner(t, newGateway(t), Options{Bus: bus})
	ch, unsub := bus.Subscribe(1)
	defer unsub()

	pune := model.Destination{Name: "Pune", Country: "India", Lat: 18.52, Lon: 73.85}
	require.NoError(t, p.SelectDestination(ctx, pune))

	c := <-ch
	assert.Equal(t, KindSelected, c.Kind)
	require.NotNil(t, c.Destination)
	assert.Equal(t, pune, *c.Destination)

	got, ok, err := p.CurrentDestination(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, pune, got)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t)
	p := newPlanner(t, g, Options{})

	require.NoError(t, p.SelectDestination(ctx, model.Destination{Name: "Goa", Lat: 15.3, Lon: 74.1}))
	_, err := p.AddEntry(ctx, "Beach", 0, "", "")
	require.NoError(t, err)
	gen := p.BeginSuggestions()

	require.NoError(t, p.ClearAll(ctx))
	assert.Empty(t, p.Itinerary())
	assert.Empty(t, p.Budget())
	assert.False(t, p.Loading())
	assert.False(t, p.ApplySuggestions(gen, []model.Suggestion{{Name: "late"}}))

	_, ok, err := p.CurrentDestination(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

// failingStore wraps a gateway and fails every write.
type failingStore struct {
	*store.Gateway
}

var errDiskFull = errors.New("disk full")

func (failingStore) SavePlan(context.Context, []model.ItineraryEntry, []model.BudgetEntry) error {
	return errDiskFull
}

func (failingStore) SaveBudget(context.Context, []model.BudgetEntry) error { return errDiskFull }

func TestWriteFailureDoesNotPublish(t *testing.T) {
	ctx := context.Background()
	bus := NewBus()
	p := New(failingStore{newGateway(t)}, Options{Bus: bus})
	ch, unsub := bus.Subscribe(1)
	defer unsub()

	_, err := p.AddEntry(ctx, "Taxi", 10, "", "")
	require.ErrorIs(t, err, errDiskFull)
	_, err = p.AddExpense(ctx, "Tea", 1)
	require.ErrorIs(t, err, errDiskFull)

	assert.Empty(t, p.Itinerary())
	assert.Empty(t, p.Budget())
	assert.Len(t, ch, 0)
}
