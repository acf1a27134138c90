// Package generator builds the synthetic coffee shop dataset: the product
// catalog, the customer pool, and a stream of weighted-random transactions.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/coffeeshop/internal/metrics"
	"github.com/mmynk/coffeeshop/internal/models"
	"github.com/mmynk/coffeeshop/internal/storage"
)

// maxTimestampDraws bounds the redraws needed to land inside the window.
const maxTimestampDraws = 64

// Summary describes a completed run.
type Summary struct {
	Run               models.GenerationRun
	GuestTransactions int
	Revenue           decimal.Decimal
	Duration          time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithMetrics reports progress to m.
func WithMetrics(m *metrics.Generator) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithCatalog replaces the default catalog.
func WithCatalog(entries []CatalogEntry) Option {
	return func(g *Generator) { g.catalog = entries }
}

// Generator runs destructive regenerations of the dataset.
type Generator struct {
	store   storage.Writer
	cfg     Config
	catalog []CatalogEntry
	now     func() time.Time
	metrics *metrics.Generator
}

// New creates a Generator writing to store.
func New(store storage.Writer, cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	g := &Generator{
		store:   store,
		cfg:     cfg,
		catalog: DefaultCatalog,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if len(g.catalog) == 0 {
		return nil, fmt.Errorf("catalog must not be empty")
	}
	return g, nil
}

// Run discards any existing data and generates a fresh dataset:
// reset schema, seed catalog, create customer pool, generate transactions,
// record the run.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()

	seed := g.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	end := g.now().Truncate(time.Second)
	start := end.AddDate(0, 0, -g.cfg.WindowDays)

	hours, err := NewWeighted(g.cfg.HourWeights)
	if err != nil {
		return nil, fmt.Errorf("invalid hour weights: %w", err)
	}
	baskets, err := NewWeighted(g.cfg.BasketWeights)
	if err != nil {
		return nil, fmt.Errorf("invalid basket weights: %w", err)
	}

	if err := g.store.ResetSchema(ctx); err != nil {
		return nil, err
	}

	products, err := SeedCatalog(ctx, g.store, g.catalog)
	if err != nil {
		return nil, err
	}
	slog.Debug("Catalog seeded", "products", len(products))

	customers, err := CreateCustomerPool(ctx, g.store, rng, g.cfg.Customers, end)
	if err != nil {
		return nil, err
	}
	slog.Debug("Customer pool created", "customers", len(customers))

	slog.Info("Generating transactions",
		"count", g.cfg.Transactions,
		"from", start.Format(models.DateLayout),
		"to", end.Format(models.DateLayout),
		"seed", seed,
	)

	b := &builder{
		rng:       rng,
		cfg:       g.cfg,
		hours:     hours,
		baskets:   baskets,
		products:  products,
		customers: customers,
		start:     start,
		end:       end,
	}

	summary := &Summary{Revenue: decimal.Zero}
	items := 0
	for i := 0; i < g.cfg.Transactions; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t := b.build()
		if err := g.store.CreateTransaction(ctx, t); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}

		items += len(t.Items)
		summary.Revenue = summary.Revenue.Add(t.TotalAmount)
		if t.IsGuest() {
			summary.GuestTransactions++
		}
		g.metrics.ObserveTransaction(len(t.Items), t.IsGuest(), t.TotalAmount.InexactFloat64())
	}

	summary.Run = models.GenerationRun{
		GeneratedAt:  end,
		WindowStart:  start,
		WindowDays:   g.cfg.WindowDays,
		Seed:         seed,
		Products:     len(products),
		Customers:    len(customers),
		Transactions: g.cfg.Transactions,
		Items:        items,
	}
	if err := g.store.RecordRun(ctx, &summary.Run); err != nil {
		return nil, err
	}

	summary.Duration = time.Since(started)
	g.metrics.ObserveRun(summary.Duration, time.Now())

	slog.Info("Generation complete",
		"run_id", summary.Run.ID,
		"transactions", summary.Run.Transactions,
		"items", items,
		"guests", summary.GuestTransactions,
		"revenue", summary.Revenue.StringFixed(2),
		"duration_ms", summary.Duration.Milliseconds(),
	)

	return summary, nil
}

// builder assembles transactions in memory. Nothing it returns has been persisted.
type builder struct {
	rng       *rand.Rand
	cfg       Config
	hours     *Weighted[int]
	baskets   *Weighted[int]
	products  []*models.Product
	customers []*models.Customer
	start     time.Time
	end       time.Time
}

// build returns a complete transaction: timestamp, optional customer,
// basket lines, and the total computed from those lines.
func (b *builder) build() *models.Transaction {
	t := &models.Transaction{
		Timestamp:  b.timestamp(),
		CustomerID: b.customer(),
	}

	size := b.baskets.Pick(b.rng)
	t.Items = make([]models.TransactionItem, size)
	for i := range t.Items {
		p := b.products[b.rng.IntN(len(b.products))]
		t.Items[i] = models.TransactionItem{
			ProductID:          p.ID,
			Quantity:           1, // multi-unit lines are not modelled
			PriceAtTransaction: p.Price,
		}
	}
	t.TotalAmount = models.SumItems(t.Items)

	return t
}

// timestamp picks a calendar day uniformly from the W+1 days touched by the
// window, then an hour by weight and a uniform minute and second. Draws that
// fall outside [start, end] (early on the first day, late on the last) are
// redrawn.
func (b *builder) timestamp() time.Time {
	loc := b.end.Location()
	var ts time.Time
	for range maxTimestampDraws {
		day := b.start.AddDate(0, 0, b.rng.IntN(b.cfg.WindowDays+1))
		ts = time.Date(day.Year(), day.Month(), day.Day(),
			b.hours.Pick(b.rng), b.rng.IntN(60), b.rng.IntN(60), 0, loc)
		if !ts.Before(b.start) && !ts.After(b.end) {
			return ts
		}
	}
	if ts.Before(b.start) {
		return b.start
	}
	return b.end
}

func (b *builder) customer() *int64 {
	if len(b.customers) == 0 || b.rng.Float64() < b.cfg.GuestProbability {
		return nil
	}
	id := b.customers[b.rng.IntN(len(b.customers))].ID
	return &id
}
