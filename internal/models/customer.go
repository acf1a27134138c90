package models

import "time"

// Customer represents a registered customer of the shop.
// Names and emails are synthesized and may collide.
type Customer struct {
	// ID is assigned by the store, sequentially starting at 1.
	ID int64

	Name  string
	Email string

	// JoinDate is the calendar date the customer signed up (time of day is zero).
	JoinDate time.Time
}
