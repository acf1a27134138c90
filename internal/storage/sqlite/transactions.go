package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/coffeeshop/internal/models"
)

// CreateTransaction persists a transaction header and its items in a single
// database transaction. The header is inserted with its final total, so no
// reader can observe a header whose total disagrees with its lines.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var customerID any
	if t.CustomerID != nil {
		customerID = *t.CustomerID
	}

	// Insert header
	res, err := tx.ExecContext(ctx,
		"INSERT INTO transactions (customer_id, transaction_date, total_amount) VALUES (?, ?, ?)",
		customerID, t.Timestamp.Format(models.TimestampLayout), t.TotalAmount.InexactFloat64(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction id: %w", err)
	}

	// Insert items
	for i := range t.Items {
		item := &t.Items[i]
		res, err := tx.ExecContext(ctx,
			"INSERT INTO transaction_items (transaction_id, product_id, quantity, price_at_transaction) VALUES (?, ?, ?, ?)",
			id, item.ProductID, item.Quantity, item.PriceAtTransaction.InexactFloat64(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction item: %w", err)
		}
		if item.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read transaction item id: %w", err)
		}
		item.TransactionID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	t.ID = id
	return nil
}

// ListTransactions retrieves every transaction header ordered by ID.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, customer_id, transaction_date, total_amount FROM transactions ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var (
			t          models.Transaction
			customerID sql.NullInt64
			date       string
			total      float64
		)
		if err := rows.Scan(&t.ID, &customerID, &date, &total); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if customerID.Valid {
			id := customerID.Int64
			t.CustomerID = &id
		}
		if t.Timestamp, err = parseTime(models.TimestampLayout, date); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		t.TotalAmount = money(total)
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// ListItems retrieves every transaction item ordered by ID.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]models.TransactionItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, transaction_id, product_id, quantity, price_at_transaction FROM transaction_items ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction items: %w", err)
	}
	defer rows.Close()

	var items []models.TransactionItem
	for rows.Next() {
		var (
			it    models.TransactionItem
			price float64
		)
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.Quantity, &price); err != nil {
			return nil, fmt.Errorf("failed to scan transaction item: %w", err)
		}
		it.PriceAtTransaction = money(price)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction items: %w", err)
	}

	return items, nil
}
