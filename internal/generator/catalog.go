package generator

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/coffeeshop/internal/models"
	"github.com/mmynk/coffeeshop/internal/storage"
)

// CatalogEntry is one (name, category, price) triple of the static catalog.
type CatalogEntry struct {
	Name     string
	Category models.Category
	Price    decimal.Decimal
}

func entry(name string, category models.Category, price string) CatalogEntry {
	return CatalogEntry{Name: name, Category: category, Price: decimal.RequireFromString(price)}
}

// DefaultCatalog is the shop's menu.
var DefaultCatalog = []CatalogEntry{
	entry("Espresso", models.CategoryCoffee, "2.50"),
	entry("Double Espresso", models.CategoryCoffee, "3.00"),
	entry("Latte", models.CategoryCoffee, "4.00"),
	entry("Cappuccino", models.CategoryCoffee, "4.00"),
	entry("Americano", models.CategoryCoffee, "3.00"),
	entry("Mocha", models.CategoryCoffee, "4.50"),
	entry("Caramel Macchiato", models.CategoryCoffee, "4.75"),
	entry("Cold Brew", models.CategoryCoffee, "3.75"),
	entry("Green Tea", models.CategoryTea, "2.75"),
	entry("Earl Grey", models.CategoryTea, "2.75"),
	entry("Chai Latte", models.CategoryTea, "4.25"),
	entry("Hot Chocolate", models.CategoryBeverage, "3.50"),
	entry("Croissant", models.CategoryBakery, "2.75"),
	entry("Chocolate Croissant", models.CategoryBakery, "3.25"),
	entry("Blueberry Muffin", models.CategoryBakery, "3.00"),
	entry("Bagel", models.CategoryBakery, "2.00"),
	entry("Ham & Cheese Sandwich", models.CategoryFood, "6.50"),
	entry("Turkey Club", models.CategoryFood, "7.00"),
	entry("Avocado Toast", models.CategoryFood, "5.50"),
}

// SeedCatalog inserts one product per entry, in listed order, and returns
// the persisted products with their assigned IDs.
func SeedCatalog(ctx context.Context, w storage.Writer, entries []CatalogEntry) ([]*models.Product, error) {
	products := make([]*models.Product, len(entries))
	for i, e := range entries {
		products[i] = &models.Product{
			Name:     e.Name,
			Category: e.Category,
			Price:    e.Price,
		}
	}
	if err := w.CreateProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}
	return products, nil
}
