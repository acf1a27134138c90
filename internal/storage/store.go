// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/coffeeshop/internal/models"
)

// ErrNoRun is returned by LatestRun when no dataset has been generated yet.
var ErrNoRun = errors.New("no generation run recorded")

// Writer defines the write side used by the generator.
// Writes assume a store that was just reset; nothing is ever updated in place.
type Writer interface {
	// ResetSchema drops every relation and recreates it empty.
	// Identity counters restart at 1.
	ResetSchema(ctx context.Context) error

	// CreateProducts inserts the products in order and populates their IDs.
	CreateProducts(ctx context.Context, products []*models.Product) error

	// CreateCustomers inserts the customers in order and populates their IDs.
	CreateCustomers(ctx context.Context, customers []*models.Customer) error

	// CreateTransaction persists the header and all of its items atomically.
	// The header is written with its final total; the transaction must pass
	// Validate. Populates tx.ID and the ID/TransactionID of every item.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// RecordRun stores the metadata of the run that produced the dataset.
	RecordRun(ctx context.Context, run *models.GenerationRun) error
}

// Reader defines the read side used by the aggregation layer.
type Reader interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)

	// ListTransactions returns every transaction header ordered by ID.
	// Items are not populated; use ListItems.
	ListTransactions(ctx context.Context) ([]models.Transaction, error)

	// ListItems returns every transaction item ordered by ID.
	ListItems(ctx context.Context) ([]models.TransactionItem, error)

	// LatestRun returns the most recent generation run, or ErrNoRun.
	LatestRun(ctx context.Context) (*models.GenerationRun, error)
}

// Store combines both sides.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the generator or the aggregation layer.
type Store interface {
	Writer
	Reader

	// Close releases any resources held by the store.
	Close() error
}
