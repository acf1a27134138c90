package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/mmynk/coffeeshop/internal/models"
	"github.com/mmynk/coffeeshop/internal/storage"
)

var firstNames = []string{
	"Olivia", "Liam", "Emma", "Noah", "Ava", "Elijah", "Sophia", "James",
	"Isabella", "Lucas", "Mia", "Mateo", "Amelia", "Benjamin", "Harper",
	"Henry", "Evelyn", "Theo", "Aria", "Jack", "Priya", "Kenji", "Fatima", "Diego",
}

var lastNames = []string{
	"Smith", "Johnson", "Garcia", "Brown", "Nguyen", "Miller", "Davis",
	"Rodriguez", "Martinez", "Lopez", "Wilson", "Anderson", "Thomas", "Moore",
	"Jackson", "Lee", "Patel", "Kim", "Walker", "Young",
}

var emailDomains = []string{"example.com", "example.org", "example.net"}

// joinWindowYears is how far back customer join dates reach.
const joinWindowYears = 1

// SyntheticCustomers builds n customers with random names, email-like
// contacts, and join dates uniform over the year ending on today's date.
// Names and emails may repeat.
func SyntheticCustomers(r *rand.Rand, n int, today time.Time) []*models.Customer {
	end := dateOf(today)
	start := end.AddDate(-joinWindowYears, 0, 0)
	span := daysBetween(start, end)

	customers := make([]*models.Customer, n)
	for i := range customers {
		first := firstNames[r.IntN(len(firstNames))]
		last := lastNames[r.IntN(len(lastNames))]
		customers[i] = &models.Customer{
			Name:     first + " " + last,
			Email:    syntheticEmail(r, first, last),
			JoinDate: start.AddDate(0, 0, r.IntN(span+1)),
		}
	}
	return customers
}

func syntheticEmail(r *rand.Rand, first, last string) string {
	domain := emailDomains[r.IntN(len(emailDomains))]
	return fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), r.IntN(100), domain)
}

// CreateCustomerPool synthesizes and persists n customers.
func CreateCustomerPool(ctx context.Context, w storage.Writer, r *rand.Rand, n int, today time.Time) ([]*models.Customer, error) {
	customers := SyntheticCustomers(r, n, today)
	if len(customers) == 0 {
		return customers, nil
	}
	if err := w.CreateCustomers(ctx, customers); err != nil {
		return nil, fmt.Errorf("failed to create customer pool: %w", err)
	}
	return customers, nil
}

// dateOf truncates t to midnight in its own location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
