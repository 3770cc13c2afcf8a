package model

// BudgetEntry is a named expense line. Entries created alongside an
// itinerary entry carry its ID in ItineraryID; standalone expenses are
// marked IsCustom and have no link.
type BudgetEntry struct {
	ID          string  `json:"id,omitempty"`
	ItineraryID string  `json:"itineraryId,omitempty"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	IsCustom    bool    `json:"isCustom,omitempty"`
}

// Linked reports whether b belongs to itinerary entry e.
//
// A budget entry with an itinerary link matches only that entry. Entries
// without one (documents written before links existed, custom expenses)
// fall back to name equality.
func (b BudgetEntry) Linked(e ItineraryEntry) bool {
	if b.ItineraryID != "" {
		return b.ItineraryID == e.ID
	}
	return b.Name == e.Name
}

// Links resolves budget-to-itinerary links across a whole budget list.
// An itinerary entry claimed by some budget entry's ItineraryID matches
// only by ID; the name fallback applies to unclaimed entries alone.
type Links struct {
	claimed map[string]bool
}

// NewLinks indexes the itinerary IDs claimed in budget.
func NewLinks(budget []BudgetEntry) Links {
	claimed := make(map[string]bool)
	for _, b := range budget {
		if b.ItineraryID != "" {
			claimed[b.ItineraryID] = true
		}
	}
	return Links{claimed: claimed}
}

// Match reports whether b belongs to itinerary entry e.
func (l Links) Match(b BudgetEntry, e ItineraryEntry) bool {
	if b.ItineraryID == "" && e.ID != "" && l.claimed[e.ID] {
		return false
	}
	return b.Linked(e)
}
