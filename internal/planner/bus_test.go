package planner

import (
	"testing"

	"github.com/theirongolddev/tripplan/internal/store"
)

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	a, unsubA := bus.Subscribe(2)
	b, unsubB := bus.Subscribe(2)
	defer unsubB()

	bus.Publish(Change{Key: store.KeyBudget, Kind: KindAdded, EntryID: "x"})

	for _, ch := range []<-chan Change{a, b} {
		c := <-ch
		if c.EntryID != "x" || c.At.IsZero() {
			t.Fatalf("unexpected change %+v", c)
		}
	}

	unsubA()
	unsubA()
	if _, ok := <-a; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}
	if n := bus.Subscribers(); n != 1 {
		t.Fatalf("Subscribers() = %d, want 1", n)
	}
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe(1)
	defer unsub()

	bus.Publish(Change{Kind: KindAdded, EntryID: "first"})
	bus.Publish(Change{Kind: KindAdded, EntryID: "second"})

	if got := (<-ch).EntryID; got != "first" {
		t.Fatalf("got %q, want first", got)
	}
	select {
	case c := <-ch:
		t.Fatalf("expected no buffered change, got %+v", c)
	default:
	}
}

func TestChangeBudgetChanged(t *testing.T) {
	tests := []struct {
		c    Change
		want bool
	}{
		{Change{Key: store.KeyBudget, Kind: KindUpdated}, true},
		{Change{Kind: KindCleared}, true},
		{Change{Key: store.KeyItinerary, Kind: KindToggled}, false},
		{Change{Key: store.KeyDestination, Kind: KindSelected}, false},
	}
	for _, tt := range tests {
		if got := tt.c.BudgetChanged(); got != tt.want {
			t.Errorf("%+v.BudgetChanged() = %v, want %v", tt.c, got, tt.want)
		}
	}
}
