package models

import "time"

// GenerationRun records the run that produced the current dataset.
// Exactly one run exists after a successful generation.
type GenerationRun struct {
	// ID is the unique identifier for the run (UUID format).
	ID string

	// GeneratedAt is the generation timestamp; it is also the end of the
	// transaction window.
	GeneratedAt time.Time

	// WindowStart is GeneratedAt minus WindowDays days.
	WindowStart time.Time
	WindowDays  int

	// Seed is the random seed the run used, so a dataset can be reproduced.
	Seed uint64

	Products     int
	Customers    int
	Transactions int
	Items        int
}
