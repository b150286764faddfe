package catalog

import (
	"sort"
	"strings"
)

type SortKey string

const (
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortYearDesc  SortKey = "year_desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Query describes one lookup. Nil pointers and empty strings mean the
// corresponding filter is absent.
type Query struct {
	ID       *int
	Brand    string
	FuelType string
	MinPrice *int64
	MaxPrice *int64
	MinSeats *int
	Sort     SortKey
	Page     int
	Limit    int
}

type Result struct {
	Cars        []Item `json:"cars"`
	TotalCars   int    `json:"totalCars"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`

	// ByID is set for the single-item lookup mode, which only carries Cars.
	ByID bool `json:"-"`
}

// Evaluate runs q against repo. It never fails: an id that matches nothing
// and a page past the end both produce an empty Cars slice.
func Evaluate(repo Repository, q Query) Result {
	if q.ID != nil {
		return lookup(repo, *q.ID)
	}

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	filtered := filter(repo.All(), q)
	sortItems(filtered, q.Sort)

	total := len(filtered)
	totalPages := ceilDiv(total, limit)

	return Result{
		Cars:        pageOf(filtered, page, limit),
		TotalCars:   total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}

func lookup(repo Repository, id int) Result {
	it, ok := repo.ByID(id)
	if !ok {
		return Result{Cars: []Item{}, ByID: true}
	}
	return Result{Cars: []Item{it}, ByID: true}
}

func filter(all []Item, q Query) []Item {
	out := make([]Item, 0, len(all))
	for _, it := range all {
		if q.Brand != "" && !strings.EqualFold(it.Brand, q.Brand) {
			continue
		}
		if q.MinPrice != nil && it.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && it.Price > *q.MaxPrice {
			continue
		}
		if q.FuelType != "" && !strings.EqualFold(it.FuelType, q.FuelType) {
			continue
		}
		if q.MinSeats != nil && it.SeatingCapacity < *q.MinSeats {
			continue
		}
		out = append(out, it)
	}
	return out
}

// sortItems reorders in place. Ties keep encounter order; unknown keys are a no-op.
func sortItems(items []Item, key SortKey) {
	var less func(a, b Item) bool

	switch key {
	case SortPriceAsc:
		less = func(a, b Item) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b Item) bool { return a.Price > b.Price }
	case SortYearDesc:
		less = func(a, b Item) bool { return a.Year > b.Year }
	default:
		return
	}

	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

func pageOf(items []Item, page, limit int) []Item {
	// Compare page counts before multiplying so huge page numbers cannot overflow.
	if page-1 >= ceilDiv(len(items), limit) {
		return []Item{}
	}
	start := (page - 1) * limit
	end := len(items)
	if limit < end-start {
		end = start + limit
	}
	return items[start:end]
}

func ceilDiv(n, d int) int {
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}
