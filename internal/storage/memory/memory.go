// Package memory provides an in-memory implementation of storage.Store
// used for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mmynk/coffeeshop/internal/models"
	"github.com/mmynk/coffeeshop/internal/storage"
)

// Compile-time contract assertion.
var _ storage.Store = (*Store)(nil)

// Store keeps the four relations in slices. Identities are slice positions + 1.
type Store struct {
	mu           sync.RWMutex
	products     []models.Product
	customers    []models.Customer
	transactions []models.Transaction
	items        []models.TransactionItem
	runs         []models.GenerationRun
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// ResetSchema drops every relation.
func (s *Store) ResetSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.customers = nil
	s.transactions = nil
	s.items = nil
	s.runs = nil
	return nil
}

// CreateProducts appends products and assigns their IDs.
func (s *Store) CreateProducts(ctx context.Context, products []*models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		p.ID = int64(len(s.products) + 1)
		s.products = append(s.products, *p)
	}
	return nil
}

// CreateCustomers appends customers and assigns their IDs.
func (s *Store) CreateCustomers(ctx context.Context, customers []*models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range customers {
		c.ID = int64(len(s.customers) + 1)
		s.customers = append(s.customers, *c)
	}
	return nil
}

// CreateTransaction enforces the same referential checks the SQLite schema does.
func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.CustomerID != nil && (*t.CustomerID < 1 || *t.CustomerID > int64(len(s.customers))) {
		return fmt.Errorf("customer not found: %d", *t.CustomerID)
	}
	for _, it := range t.Items {
		if it.ProductID < 1 || it.ProductID > int64(len(s.products)) {
			return fmt.Errorf("product not found: %d", it.ProductID)
		}
	}

	t.ID = int64(len(s.transactions) + 1)
	for i := range t.Items {
		t.Items[i].ID = int64(len(s.items) + 1)
		t.Items[i].TransactionID = t.ID
		s.items = append(s.items, t.Items[i])
	}

	header := *t
	header.Items = nil
	s.transactions = append(s.transactions, header)
	return nil
}

// RecordRun stores run, generating an ID when it has none.
func (s *Store) RecordRun(ctx context.Context, run *models.GenerationRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *run)
	return nil
}

// ListProducts returns all products in ID order.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.products...), nil
}

// ListCustomers returns all customers in ID order.
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Customer(nil), s.customers...), nil
}

// ListTransactions returns transaction headers without their items.
func (s *Store) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Transaction(nil), s.transactions...), nil
}

// ListItems returns every line item in ID order.
func (s *Store) ListItems(ctx context.Context) ([]models.TransactionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TransactionItem(nil), s.items...), nil
}

// LatestRun returns the most recent run or storage.ErrNoRun.
func (s *Store) LatestRun(ctx context.Context) (*models.GenerationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.runs) == 0 {
		return nil, storage.ErrNoRun
	}
	run := s.runs[len(s.runs)-1]
	return &run, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
