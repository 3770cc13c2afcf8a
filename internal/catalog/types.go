package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// geocodeResponse is the open-meteo geocoding search payload.
type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// placesResponse is the Geoapify places GeoJSON payload.
type placesResponse struct {
	Features []placeFeature `json:"features"`
}

type placeFeature struct {
	Properties placeProperties `json:"properties"`
}

type placeProperties struct {
	Name         string     `json:"name"`
	Categories   []string   `json:"categories"`
	Formatted    string     `json:"formatted"`
	AddressLine2 string     `json:"address_line2"`
	City         string     `json:"city"`
	Website      string     `json:"website"`
	Contact      struct {
		Phone looseString `json:"phone"`
	} `json:"contact"`
	Datasource struct {
		Raw struct {
			Website looseString `json:"website"`
			Phone   looseString `json:"phone"`
		} `json:"raw"`
	} `json:"datasource"`
}

// imageSearchResponse is the Unsplash photo search payload.
type imageSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// looseString accepts a JSON string or number. OSM-derived raw fields
// carry phone numbers either way.
type looseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *looseString) UnmarshalJSON(raw []byte) error {
	if len(raw) == 0 || string(raw) == "null" {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		*s = looseString(strings.TrimSpace(str))
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		*s = looseString(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}

	// Objects and arrays are not useful here; drop them rather than fail
	// the whole category.
	*s = ""
	return nil
}
