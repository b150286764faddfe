package catalog

import (
	"sort"
	"strings"
)

type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Facets lists the values a filter form can offer for the current inventory.
type Facets struct {
	Brands            []string   `json:"brands"`
	FuelTypes         []string   `json:"fuelTypes"`
	SeatingCapacities []int      `json:"seatingCapacities"`
	PriceRange        PriceRange `json:"priceRange"`
}

func BuildFacets(repo Repository) Facets {
	f := Facets{
		Brands:            []string{},
		FuelTypes:         []string{},
		SeatingCapacities: []int{},
	}

	brands := map[string]struct{}{}
	fuels := map[string]struct{}{}
	seats := map[int]struct{}{}

	for i, it := range repo.All() {
		if i == 0 || it.Price < f.PriceRange.Min {
			f.PriceRange.Min = it.Price
		}
		if i == 0 || it.Price > f.PriceRange.Max {
			f.PriceRange.Max = it.Price
		}
		f.Brands = appendFolded(f.Brands, brands, it.Brand)
		f.FuelTypes = appendFolded(f.FuelTypes, fuels, it.FuelType)
		if _, ok := seats[it.SeatingCapacity]; !ok {
			seats[it.SeatingCapacity] = struct{}{}
			f.SeatingCapacities = append(f.SeatingCapacities, it.SeatingCapacity)
		}
	}

	sort.Strings(f.Brands)
	sort.Strings(f.FuelTypes)
	sort.Ints(f.SeatingCapacities)
	return f
}

// appendFolded keeps the first spelling of values that only differ by case,
// since filters match case-insensitively.
func appendFolded(out []string, seen map[string]struct{}, v string) []string {
	if v == "" {
		return out
	}
	k := strings.ToLower(v)
	if _, ok := seen[k]; ok {
		return out
	}
	seen[k] = struct{}{}
	return append(out, v)
}
