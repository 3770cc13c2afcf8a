// Package model defines the domain types shared by the trip planner: the
// selected destination, itinerary and budget entries, and ephemeral place
// suggestions.
package model

import "fmt"

// Destination is the single currently selected place.
type Destination struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IsZero reports whether no destination has been selected.
func (d Destination) IsZero() bool {
	return d.Name == "" && d.Country == "" && d.Lat == 0 && d.Lon == 0
}

// Label renders "Name, Country" (or just the name when country is unknown).
func (d Destination) Label() string {
	if d.Country == "" {
		return d.Name
	}
	return fmt.Sprintf("%s, %s", d.Name, d.Country)
}
