package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the persisted format of transaction timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the persisted format of calendar dates.
const DateLayout = "2006-01-02"

var (
	ErrEmptyBasket     = errors.New("transaction has no items")
	ErrInvalidQuantity = errors.New("item quantity must be positive")
	ErrTotalMismatch   = errors.New("transaction total does not match its items")
)

// Transaction represents one point-of-sale transaction.
type Transaction struct {
	// ID is assigned by the store when the transaction is persisted.
	ID int64

	// CustomerID references a Customer, or is nil for a guest sale.
	CustomerID *int64

	// Timestamp is the moment of sale, truncated to the second.
	Timestamp time.Time

	// TotalAmount is the sum of Quantity × PriceAtTransaction over Items.
	TotalAmount decimal.Decimal

	// Items are the basket lines. Populated when writing a transaction;
	// bulk reads return lines separately (see storage.Reader).
	Items []TransactionItem
}

// TransactionItem represents a single basket line of a Transaction.
type TransactionItem struct {
	ID            int64
	TransactionID int64
	ProductID     int64

	// Quantity is the number of units on this line. Always positive.
	Quantity int

	// PriceAtTransaction is the unit price captured at the moment of sale.
	// It may differ from the product's current catalog price.
	PriceAtTransaction decimal.Decimal
}

// LineTotal returns Quantity × PriceAtTransaction.
func (it TransactionItem) LineTotal() decimal.Decimal {
	return it.PriceAtTransaction.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// IsGuest reports whether the transaction has no attached customer.
func (t *Transaction) IsGuest() bool {
	return t.CustomerID == nil
}

// SumItems returns the sum of all line totals, rounded to cents.
func SumItems(items []TransactionItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total.Round(2)
}

// Validate checks that the transaction satisfies the basket invariants:
// at least one item, positive quantities, and a total equal to the sum of its lines.
func (t *Transaction) Validate() error {
	if len(t.Items) == 0 {
		return ErrEmptyBasket
	}
	for i, it := range t.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("item %d: %w", i, ErrInvalidQuantity)
		}
	}
	if want := SumItems(t.Items); !t.TotalAmount.Equal(want) {
		return fmt.Errorf("%w: total %s, items sum to %s", ErrTotalMismatch, t.TotalAmount, want)
	}
	return nil
}
