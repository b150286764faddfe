package catalog

import (
	"net/url"
	"strconv"
)

// Request parameter names, shared by the HTTP handler and the client.
const (
	ParamID       = "id"
	ParamBrand    = "brand"
	ParamFuelType = "fuelType"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamSeats    = "seatingCapacity"
	ParamSort     = "sort"
	ParamPage     = "page"
	ParamLimit    = "limit"
)

// ParseQuery never fails. Missing, empty, non-numeric and negative numbers
// become absent filters; page and limit fall back to their defaults.
// A zero bound is kept as given.
func ParseQuery(v url.Values, defaultLimit int) Query {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}

	q := Query{
		Brand:    v.Get(ParamBrand),
		FuelType: v.Get(ParamFuelType),
		Sort:     SortKey(v.Get(ParamSort)),
		Page:     positiveOr(v.Get(ParamPage), DefaultPage),
		Limit:    positiveOr(v.Get(ParamLimit), defaultLimit),
	}
	if q.Sort == "" {
		q.Sort = SortPriceAsc
	}

	if id, ok := parseNonNegative(v.Get(ParamID)); ok {
		n := int(id)
		q.ID = &n
	}
	if n, ok := parseNonNegative(v.Get(ParamMinPrice)); ok {
		q.MinPrice = &n
	}
	if n, ok := parseNonNegative(v.Get(ParamMaxPrice)); ok {
		q.MaxPrice = &n
	}
	if n, ok := parseNonNegative(v.Get(ParamSeats)); ok {
		seats := int(n)
		q.MinSeats = &seats
	}

	return q
}

// Values is the inverse of ParseQuery for the fields that are set.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.ID != nil {
		v.Set(ParamID, strconv.Itoa(*q.ID))
		return v
	}

	if q.Brand != "" {
		v.Set(ParamBrand, q.Brand)
	}
	if q.FuelType != "" {
		v.Set(ParamFuelType, q.FuelType)
	}
	if q.MinPrice != nil {
		v.Set(ParamMinPrice, strconv.FormatInt(*q.MinPrice, 10))
	}
	if q.MaxPrice != nil {
		v.Set(ParamMaxPrice, strconv.FormatInt(*q.MaxPrice, 10))
	}
	if q.MinSeats != nil {
		v.Set(ParamSeats, strconv.Itoa(*q.MinSeats))
	}
	if q.Sort != "" {
		v.Set(ParamSort, string(q.Sort))
	}
	if q.Page > 0 {
		v.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set(ParamLimit, strconv.Itoa(q.Limit))
	}
	return v
}

func parseNonNegative(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, strconv.IntSize)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func positiveOr(s string, def int) int {
	n, ok := parseNonNegative(s)
	if !ok || n < 1 {
		return def
	}
	return int(n)
}
