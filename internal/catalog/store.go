package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID   = errors.New("item id must be positive")
	ErrDuplicateID = errors.New("duplicate item id")
)

type Specifications struct {
	Engine       string `json:"engine"`
	Mileage      string `json:"mileage"`
	Color        string `json:"color"`
	Transmission string `json:"transmission"`
}

type Item struct {
	ID              int            `json:"id"`
	Brand           string         `json:"brand"`
	Model           string         `json:"model"`
	Price           int64          `json:"price"`
	Image           string         `json:"image"`
	FuelType        string         `json:"fuelType"`
	SeatingCapacity int            `json:"seatingCapacity"`
	Year            int            `json:"year"`
	Description     string         `json:"description"`
	Specifications  Specifications `json:"specifications"`
}

// Repository is a read-only view of the inventory. All returns items in
// encounter order; callers must not modify the returned slice.
type Repository interface {
	All() []Item
	ByID(id int) (Item, bool)
}

func validateItems(items []Item) error {
	seen := make(map[int]struct{}, len(items))
	for _, it := range items {
		if it.ID <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidID, it.ID)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}
