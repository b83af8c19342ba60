package places

import (
	"slices"
	"strings"

	"github.com/Briancute/local-lead-finder/internal/model"
)

// Placeholder contact data attached to demo details.
const (
	demoPhone        = "+63 2 1234 5678"
	demoWebsite      = "https://example.com"
	demoOpeningHours = "Mon-Sun: 10:00 AM - 10:00 PM"

	maxDemoResults = 10
)

var demoCatalog = []model.Place{
	{Name: "Jollibee Makati", Address: "6750 Ayala Avenue, Makati, Metro Manila", PlaceID: "demo_jollibee_makati_1", Rating: 4.5, UserRatingsTotal: 1234, Types: []string{"restaurant", "food", "fast_food"}},
	{Name: "Starbucks BGC", Address: "5th Ave, Taguig, Metro Manila", PlaceID: "demo_starbucks_bgc_1", Rating: 4.3, UserRatingsTotal: 856, Types: []string{"cafe", "coffee_shop", "food"}},
	{Name: "The Coffee Bean & Tea Leaf", Address: "SM Mall of Asia, Pasay City", PlaceID: "demo_coffee_bean_moa_1", Rating: 4.4, UserRatingsTotal: 456, Types: []string{"cafe", "coffee_shop"}},
	{Name: "Vikings Luxury Buffet", Address: "SM Megamall, Mandaluyong City", PlaceID: "demo_vikings_megamall_1", Rating: 4.6, UserRatingsTotal: 2341, Types: []string{"restaurant", "buffet", "food"}},
	{Name: "Manam Comfort Filipino", Address: "Greenbelt 2, Makati City", PlaceID: "demo_manam_greenbelt_1", Rating: 4.7, UserRatingsTotal: 1876, Types: []string{"restaurant", "filipino_restaurant", "food"}},
	{Name: "Fitness First Ortigas", Address: "Robinsons Galleria, Ortigas Center", PlaceID: "demo_fitness_first_ortigas_1", Rating: 4.2, UserRatingsTotal: 543, Types: []string{"gym", "fitness_center", "health"}},
	{Name: "Gold's Gym Quezon City", Address: "SM North EDSA, Quezon City", PlaceID: "demo_golds_gym_qc_1", Rating: 4.4, UserRatingsTotal: 789, Types: []string{"gym", "fitness_center"}},
	{Name: "Healthy Options Bonifacio", Address: "BGC, Taguig City", PlaceID: "demo_healthy_options_bgc_1", Rating: 4.5, UserRatingsTotal: 234, Types: []string{"health_food_store", "organic_shop"}},
	{Name: "Toby's Sports Manila", Address: "Glorietta, Makati City", PlaceID: "demo_tobys_sports_makati_1", Rating: 4.3, UserRatingsTotal: 456, Types: []string{"sporting_goods_store", "store"}},
	{Name: "Smile Dental Clinic", Address: "123 Katipunan Ave, Quezon City", PlaceID: "demo_smile_dental_qc_1", Rating: 4.8, UserRatingsTotal: 167, Types: []string{"dentist", "health", "medical"}},
	{Name: "Modern Dental Care", Address: "Alabang Town Center, Muntinlupa", PlaceID: "demo_modern_dental_alabang_1", Rating: 4.6, UserRatingsTotal: 234, Types: []string{"dentist", "health"}},
	{Name: "Max's Restaurant", Address: "Multiple Locations, Metro Manila", PlaceID: "demo_maxs_restaurant_1", Rating: 4.5, UserRatingsTotal: 3456, Types: []string{"restaurant", "filipino_restaurant"}},
}

// category maps query keywords to the place types they select.
type category struct {
	keywords []string
	types    []string
}

// Checked in order; the first category with a matching keyword wins.
var demoCategories = []category{
	{keywords: []string{"restaurant", "food", "resto"}, types: []string{"restaurant", "food", "buffet", "filipino_restaurant"}},
	{keywords: []string{"coffee", "cafe", "starbucks"}, types: []string{"cafe", "coffee_shop"}},
	{keywords: []string{"gym", "fitness"}, types: []string{"gym", "fitness_center"}},
	{keywords: []string{"dentist", "dental", "clinic"}, types: []string{"dentist"}},
}

// classify returns the place types selected by the query, or nil when no
// keyword matches.
func classify(query string) []string {
	words := strings.Split(strings.ToLower(query), " ")
	for _, cat := range demoCategories {
		for _, w := range words {
			if slices.Contains(cat.keywords, w) {
				return cat.types
			}
		}
	}
	return nil
}

func demoSearch(query string) *model.SearchPage {
	types := classify(query)

	results := make([]model.Place, 0, maxDemoResults)
	for _, p := range demoCatalog {
		if types != nil && !p.HasAnyType(types...) {
			continue
		}
		p.Types = slices.Clone(p.Types)
		results = append(results, p)
		if len(results) == maxDemoResults {
			break
		}
	}
	return &model.SearchPage{Results: results}
}

func demoDetails(placeID string) *model.PlaceDetails {
	for _, p := range demoCatalog {
		if p.PlaceID != placeID {
			continue
		}
		return &model.PlaceDetails{
			PlaceID:          p.PlaceID,
			Name:             p.Name,
			Address:          p.Address,
			Phone:            demoPhone,
			Website:          demoWebsite,
			Rating:           p.Rating,
			UserRatingsTotal: p.UserRatingsTotal,
			Types:            slices.Clone(p.Types),
			OpeningHours:     demoOpeningHours,
		}
	}
	return nil
}
