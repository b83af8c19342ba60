package model

// Place is a normalized business candidate returned by a place search.
type Place struct {
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	PlaceID          string   `json:"placeId"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"userRatingsTotal,omitempty"`
	Types            []string `json:"types"`
}

// HasAnyType reports whether the place carries at least one of the given types.
func (p *Place) HasAnyType(types ...string) bool {
	for _, have := range p.Types {
		for _, want := range types {
			if have == want {
				return true
			}
		}
	}
	return false
}

// PlaceDetails is the enrichment data for a single place.
type PlaceDetails struct {
	PlaceID          string   `json:"placeId,omitempty"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Phone            string   `json:"phone,omitempty"`
	Website          string   `json:"website,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"userRatingsTotal,omitempty"`
	Types            []string `json:"types,omitempty"`
	OpeningHours     string   `json:"openingHours,omitempty"`
}

// SearchPage is one page of place search results.
type SearchPage struct {
	Results       []Place `json:"results"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}
