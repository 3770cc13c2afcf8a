package model

// Suggestion is a candidate place returned by the catalog. It is never
// persisted: it is either added to the itinerary or discarded.
type Suggestion struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Address     string  `json:"address"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Website     string  `json:"website,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Cost        float64 `json:"cost"`
}
