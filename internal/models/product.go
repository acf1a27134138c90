package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category is the fixed product category enumeration.
type Category string

const (
	CategoryCoffee   Category = "Coffee"
	CategoryTea      Category = "Tea"
	CategoryBeverage Category = "Beverage"
	CategoryBakery   Category = "Bakery"
	CategoryFood     Category = "Food"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryCoffee,
	CategoryTea,
	CategoryBeverage,
	CategoryBakery,
	CategoryFood,
}

// ParseCategory converts a stored category name back into a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// Product represents one entry of the shop's catalog.
// Products are immutable once created; the catalog is seeded once per run.
type Product struct {
	// ID is assigned by the store, sequentially starting at 1.
	ID int64

	// Name is the display name (e.g., "Latte", "Blueberry Muffin").
	Name string

	// Category is one of the fixed Categories.
	Category Category

	// Price is the current catalog unit price. Always positive.
	Price decimal.Decimal
}
