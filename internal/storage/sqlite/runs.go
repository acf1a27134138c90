package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/coffeeshop/internal/models"
	"github.com/mmynk/coffeeshop/internal/storage"
)

// RecordRun persists the generation run metadata.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *models.GenerationRun) error {
	// Generate ID if not set
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_runs (id, generated_at, window_start, window_days, seed, products, customers, transactions, items)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.GeneratedAt.Format(time.RFC3339),
		run.WindowStart.Format(time.RFC3339),
		run.WindowDays,
		strconv.FormatUint(run.Seed, 10),
		run.Products, run.Customers, run.Transactions, run.Items,
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation run: %w", err)
	}

	return nil
}

// LatestRun retrieves the most recent generation run.
func (s *SQLiteStore) LatestRun(ctx context.Context) (*models.GenerationRun, error) {
	run := &models.GenerationRun{}
	var generatedAt, windowStart, seed string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, generated_at, window_start, window_days, seed, products, customers, transactions, items
		 FROM generation_runs ORDER BY generated_at DESC LIMIT 1`,
	).Scan(&run.ID, &generatedAt, &windowStart, &run.WindowDays, &seed,
		&run.Products, &run.Customers, &run.Transactions, &run.Items)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoRun
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get generation run: %w", err)
	}

	if run.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse generated_at: %w", err)
	}
	if run.WindowStart, err = time.Parse(time.RFC3339, windowStart); err != nil {
		return nil, fmt.Errorf("failed to parse window_start: %w", err)
	}
	if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	return run, nil
}
