package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/coffeeshop/internal/models"
)

const (
	// DefaultTopProducts is the number of products in the top sellers ranking.
	DefaultTopProducts = 10

	// DefaultRecent is the number of rows in the recent transactions table.
	DefaultRecent = 50
)

// Weekdays lists the days of the week in display order, Monday first.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Summary holds the headline KPIs.
type Summary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	Transactions      int             `json:"transactions"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	ItemsSold         int             `json:"items_sold"`
}

// DailyRevenue is the revenue of one calendar day.
type DailyRevenue struct {
	Date         time.Time       `json:"date"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

// HourlyTraffic is the number of transactions started in one hour of the day.
type HourlyTraffic struct {
	Hour         int `json:"hour"`
	Transactions int `json:"transactions"`
}

// ProductSales is the sales volume of one product.
type ProductSales struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Category  models.Category `json:"category"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CategoryRevenue is the revenue of one category and its share of the total.
type CategoryRevenue struct {
	Category models.Category `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Share    float64         `json:"share"`
}

// WeekdayAverage is the average order value for one day of the week.
type WeekdayAverage struct {
	Weekday      time.Weekday    `json:"-"`
	Day          string          `json:"day"`
	Average      decimal.Decimal `json:"average"`
	Transactions int             `json:"transactions"`
}

// Summary computes the headline KPIs.
// The average order value is zero when there are no transactions.
func (d *Dataset) Summary() Summary {
	s := Summary{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		Transactions:      len(d.Transactions),
	}
	for _, t := range d.Transactions {
		s.TotalRevenue = s.TotalRevenue.Add(t.TotalAmount)
	}
	for _, it := range d.Items {
		s.ItemsSold += it.Quantity
	}
	s.AverageOrderValue = average(s.TotalRevenue, s.Transactions)
	return s
}

// DailyRevenue sums transaction totals per calendar day, in date order.
// Days without transactions are omitted.
func (d *Dataset) DailyRevenue() []DailyRevenue {
	byDay := make(map[time.Time]*DailyRevenue)
	for _, t := range d.Transactions {
		day := dateOf(t.Timestamp)
		dr, ok := byDay[day]
		if !ok {
			dr = &DailyRevenue{Date: day, Revenue: decimal.Zero}
			byDay[day] = dr
		}
		dr.Revenue = dr.Revenue.Add(t.TotalAmount)
		dr.Transactions++
	}

	out := make([]DailyRevenue, 0, len(byDay))
	for _, dr := range byDay {
		out = append(out, *dr)
	}
	slices.SortFunc(out, func(a, b DailyRevenue) int { return a.Date.Compare(b.Date) })
	return out
}

// HourlyTraffic counts transactions per hour of day, in hour order.
// Hours without transactions are omitted.
func (d *Dataset) HourlyTraffic() []HourlyTraffic {
	var counts [24]int
	for _, t := range d.Transactions {
		counts[t.Timestamp.Hour()]++
	}

	var out []HourlyTraffic
	for h, n := range counts {
		if n > 0 {
			out = append(out, HourlyTraffic{Hour: h, Transactions: n})
		}
	}
	return out
}

// TopProducts ranks products by total quantity sold and returns the first n.
// Ties are broken by name. Products that never sold are not ranked.
func (d *Dataset) TopProducts(n int) []ProductSales {
	byProduct := make(map[int64]*ProductSales)
	for _, it := range d.Items {
		ps, ok := byProduct[it.ProductID]
		if !ok {
			p, _ := d.Product(it.ProductID)
			ps = &ProductSales{
				ProductID: it.ProductID,
				Name:      p.Name,
				Category:  p.Category,
				Revenue:   decimal.Zero,
			}
			byProduct[it.ProductID] = ps
		}
		ps.Quantity += it.Quantity
		ps.Revenue = ps.Revenue.Add(it.LineTotal())
	}

	out := make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		out = append(out, *ps)
	}
	slices.SortFunc(out, func(a, b ProductSales) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CategoryRevenue sums line revenue per product category, in category display
// order. Categories without sales are omitted. Shares sum to 1 unless the
// dataset is empty.
func (d *Dataset) CategoryRevenue() []CategoryRevenue {
	byCategory := make(map[models.Category]decimal.Decimal)
	total := decimal.Zero
	for _, it := range d.Items {
		p, ok := d.Product(it.ProductID)
		if !ok {
			continue
		}
		line := it.LineTotal()
		byCategory[p.Category] = byCategory[p.Category].Add(line)
		total = total.Add(line)
	}

	var out []CategoryRevenue
	for _, c := range models.Categories {
		rev, ok := byCategory[c]
		if !ok {
			continue
		}
		share := 0.0
		if total.IsPositive() {
			share = rev.Div(total).InexactFloat64()
		}
		out = append(out, CategoryRevenue{Category: c, Revenue: rev, Share: share})
	}
	return out
}

// WeekdayAverage computes the average order value per day of the week,
// Monday through Sunday. Days without transactions report zero.
func (d *Dataset) WeekdayAverage() []WeekdayAverage {
	sums := make(map[time.Weekday]decimal.Decimal)
	counts := make(map[time.Weekday]int)
	for _, t := range d.Transactions {
		wd := t.Timestamp.Weekday()
		sums[wd] = sums[wd].Add(t.TotalAmount)
		counts[wd]++
	}

	out := make([]WeekdayAverage, len(Weekdays))
	for i, wd := range Weekdays {
		out[i] = WeekdayAverage{
			Weekday:      wd,
			Day:          wd.String(),
			Average:      average(sums[wd], counts[wd]),
			Transactions: counts[wd],
		}
	}
	return out
}

// Recent returns the n most recent transactions, newest first.
func (d *Dataset) Recent(n int) []models.Transaction {
	out := slices.Clone(d.Transactions)
	slices.SortFunc(out, func(a, b models.Transaction) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func average(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}
