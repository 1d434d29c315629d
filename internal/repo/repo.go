package repo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type GormRepo struct {
	DB *gorm.DB
}

const (
	SortPopularity = "popularity"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRating     = "rating"
)

// ProductFilter bounds are inclusive and apply to the discounted price.
// Zero values disable the corresponding filter, except Limit which must be set.
type ProductFilter struct {
	// Query matches title, brand or description; empty matches everything.
	Query     string
	MinPrice  float64
	MaxPrice  float64
	Brands    []string
	Category  string
	MinRating float64
	Sort      string
	Offset    int
	Limit     int
}

func ValidSort(s string) bool {
	switch s {
	case SortPopularity, SortPriceAsc, SortPriceDesc, SortRating:
		return true
	}
	return false
}
