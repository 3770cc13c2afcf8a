package model

import "github.com/google/uuid"

// ItineraryEntry is a planned activity or place. Order in the itinerary is
// insertion order.
type ItineraryEntry struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Completed bool     `json:"completed"`
	Cost      *float64 `json:"cost,omitempty"`
	Address   string   `json:"address,omitempty"`
	Image     string   `json:"image,omitempty"`
}

// CostValue returns the cost, or 0 when none was recorded.
func (e ItineraryEntry) CostValue() float64 {
	if e.Cost == nil {
		return 0
	}
	return *e.Cost
}

// SetCost records a cost on the entry.
func (e *ItineraryEntry) SetCost(v float64) {
	e.Cost = &v
}

// NewID returns a fresh opaque identifier for itinerary and budget entries.
func NewID() string {
	return uuid.NewString()
}
