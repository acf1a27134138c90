package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/coffeeshop/internal/models"
)

// CreateCustomers inserts the customer pool in order.
func (s *SQLiteStore) CreateCustomers(ctx context.Context, customers []*models.Customer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO customers (name, email, join_date)
		VALUES (?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare customer insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range customers {
		res, err := stmt.ExecContext(ctx, c.Name, c.Email, c.JoinDate.Format(models.DateLayout))
		if err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		if c.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read customer id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListCustomers retrieves every customer ordered by ID.
func (s *SQLiteStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	query := `
		SELECT id, name, email, join_date
		FROM customers
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var (
			c        models.Customer
			email    sql.NullString
			joinDate sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &email, &joinDate); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		c.Email = email.String
		if joinDate.Valid {
			if c.JoinDate, err = parseTime(models.DateLayout, joinDate.String); err != nil {
				return nil, fmt.Errorf("customer %d: %w", c.ID, err)
			}
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}
