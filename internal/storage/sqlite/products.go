package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/coffeeshop/internal/models"
)

// CreateProducts inserts the catalog in listed order.
func (s *SQLiteStore) CreateProducts(ctx context.Context, products []*models.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO products (name, category, price) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare product insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		res, err := stmt.ExecContext(ctx, p.Name, string(p.Category), p.Price.InexactFloat64())
		if err != nil {
			return fmt.Errorf("failed to insert product %q: %w", p.Name, err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read product id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListProducts retrieves the full catalog ordered by ID.
func (s *SQLiteStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, category, price FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var (
			p        models.Product
			category string
			price    float64
		)
		if err := rows.Scan(&p.ID, &p.Name, &category, &price); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if p.Category, err = models.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("product %d: %w", p.ID, err)
		}
		p.Price = money(price)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}
