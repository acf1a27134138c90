// Package report aggregates a loaded dataset into the business metrics shown
// by the static charts and the dashboard. Every aggregation is a pure function
// of the dataset; an empty dataset yields zero values, never an error.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	roaring "github.com/RoaringBitmap/roaring/roaring64"

	"github.com/mmynk/coffeeshop/internal/models"
	"github.com/mmynk/coffeeshop/internal/storage"
)

// Dataset is an immutable snapshot of the store.
// It is safe for concurrent readers.
type Dataset struct {
	Products     []models.Product
	Transactions []models.Transaction
	Items        []models.TransactionItem

	// Run describes the generation run that produced the data, or nil when
	// none was recorded.
	Run *models.GenerationRun

	products map[int64]models.Product
}

// NewDataset indexes the given relations. Transactions and items are kept in
// the order given.
func NewDataset(products []models.Product, transactions []models.Transaction, items []models.TransactionItem) *Dataset {
	d := &Dataset{
		Products:     products,
		Transactions: transactions,
		Items:        items,
		products:     make(map[int64]models.Product, len(products)),
	}
	for _, p := range products {
		d.products[p.ID] = p
	}
	return d
}

// Load reads the complete dataset from r.
func Load(ctx context.Context, r storage.Reader) (*Dataset, error) {
	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	transactions, err := r.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	items, err := r.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction items: %w", err)
	}

	d := NewDataset(products, transactions, items)

	run, err := r.LatestRun(ctx)
	switch {
	case errors.Is(err, storage.ErrNoRun):
	case err != nil:
		return nil, fmt.Errorf("failed to load generation run: %w", err)
	default:
		d.Run = run
	}
	return d, nil
}

// Product returns the catalog entry for id.
func (d *Dataset) Product(id int64) (models.Product, bool) {
	p, ok := d.products[id]
	return p, ok
}

// Bounds returns the calendar dates of the earliest and latest transaction.
// ok is false when the dataset is empty.
func (d *Dataset) Bounds() (first, last time.Time, ok bool) {
	for i, t := range d.Transactions {
		if i == 0 || t.Timestamp.Before(first) {
			first = t.Timestamp
		}
		if i == 0 || t.Timestamp.After(last) {
			last = t.Timestamp
		}
	}
	if len(d.Transactions) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return dateOf(first), dateOf(last), true
}

// Filter returns the subset of transactions whose calendar date lies within
// r, together with the items of exactly those transactions. Products and the
// run are shared with d.
func (d *Dataset) Filter(r DateRange) *Dataset {
	if r.IsZero() {
		return d
	}

	kept := roaring.New()
	transactions := make([]models.Transaction, 0, len(d.Transactions))
	for _, t := range d.Transactions {
		if r.Contains(t.Timestamp) {
			transactions = append(transactions, t)
			kept.Add(uint64(t.ID))
		}
	}

	items := make([]models.TransactionItem, 0, len(d.Items))
	for _, it := range d.Items {
		if kept.Contains(uint64(it.TransactionID)) {
			items = append(items, it)
		}
	}

	return &Dataset{
		Products:     d.Products,
		Transactions: transactions,
		Items:        items,
		Run:          d.Run,
		products:     d.products,
	}
}

// DateRange is an inclusive range of calendar dates. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two optional YYYY-MM-DD dates in local time.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if start != "" {
		if r.Start, err = time.ParseInLocation(models.DateLayout, start, time.Local); err != nil {
			return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
	}
	if end != "" {
		if r.End, err = time.ParseInLocation(models.DateLayout, end, time.Local); err != nil {
			return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return r, nil
}

// IsZero reports whether the range is unbounded on both sides.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether the calendar date of ts lies within the range.
func (r DateRange) Contains(ts time.Time) bool {
	day := dateOf(ts)
	if !r.Start.IsZero() && day.Before(dateOf(r.Start)) {
		return false
	}
	if !r.End.IsZero() && day.After(dateOf(r.End)) {
		return false
	}
	return true
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
