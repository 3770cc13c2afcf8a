package planner

import (
	"sync"
	"time"

	"github.com/theirongolddev/tripplan/internal/model"
	"github.com/theirongolddev/tripplan/internal/store"
)

// Kind says what happened to a document.
type Kind string

const (
	KindAdded    Kind = "added"
	KindUpdated  Kind = "updated"
	KindRemoved  Kind = "removed"
	KindToggled  Kind = "toggled"
	KindSynced   Kind = "synced"
	KindSelected Kind = "selected"
	KindCleared  Kind = "cleared"
)

// Change describes one committed mutation. It is published after the
// affected documents have been written.
type Change struct {
	Key         string             `json:"key"`
	Kind        Kind               `json:"kind"`
	EntryID     string             `json:"entry_id,omitempty"`
	Source      string             `json:"source"`
	Destination *model.Destination `json:"destination,omitempty"`
	At          time.Time          `json:"at"`
}

// BudgetChanged reports whether c should make other views reconcile their
// itinerary costs.
func (c Change) BudgetChanged() bool {
	return c.Key == store.KeyBudget || c.Kind == KindCleared
}

// Bus fans changes out to subscribers. Delivery never blocks the
// publisher: a subscriber whose buffer is full misses the change.
type Bus struct {
	mu        sync.Mutex
	nextSubID int
	subs      map[int]chan Change
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Change)}
}

// Subscribe registers a listener with the given buffer size. The returned
// func unsubscribes and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer < 1 {
		buffer = 16
	}
	ch := make(chan Change, buffer)

	b.mu.Lock()
	id := b.nextSubID
	b.nextSubID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
			b.mu.Unlock()
		})
	}
}

// Publish delivers c to every subscriber.
func (b *Bus) Publish(c Change) {
	if c.At.IsZero() {
		c.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		select {
		case sub <- c:
		default:
		}
	}
}

// Subscribers returns the current subscriber count.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
