package dashboard

import (
	"embed"
	"html/template"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/coffeeshop/internal/charts"
	"github.com/mmynk/coffeeshop/internal/models"
	"github.com/mmynk/coffeeshop/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"money": money,
	"deref": func(p *int64) int64 { return *p },
}).ParseFS(templateFS, "templates/*.html"))

var chartTitles = map[string]string{
	charts.DailySalesTrend: "Daily Revenue Trend",
	charts.HourlyTraffic:   "Hourly Traffic",
	charts.TopProducts:     "Top Selling Products",
	charts.CategorySales:   "Revenue by Category",
	charts.AOVByDay:        "Average Order Value by Day of Week",
}

// view is everything the page fragments render for one date range.
type view struct {
	Summary report.Summary
	Charts  []chartLink
	Recent  []recentRow
}

type chartLink struct {
	Title string
	URL   string
}

type recentRow struct {
	ID         int64           `json:"id"`
	Timestamp  string          `json:"timestamp"`
	CustomerID *int64          `json:"customer_id"`
	Items      int             `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

func newView(d *report.Dataset, start, end string) view {
	return view{
		Summary: d.Summary(),
		Charts:  chartLinks(start, end),
		Recent:  recentRows(d, report.DefaultRecent),
	}
}

func chartLinks(start, end string) []chartLink {
	q := url.Values{}
	if start != "" {
		q.Set("start", start)
	}
	if end != "" {
		q.Set("end", end)
	}

	var links []chartLink
	for _, file := range charts.Files() {
		u := "/charts/" + file
		if len(q) > 0 {
			u += "?" + q.Encode()
		}
		links = append(links, chartLink{Title: chartTitles[file], URL: u})
	}
	return links
}

func recentRows(d *report.Dataset, n int) []recentRow {
	counts := make(map[int64]int, len(d.Transactions))
	for _, it := range d.Items {
		counts[it.TransactionID] += it.Quantity
	}

	recent := d.Recent(n)
	rows := make([]recentRow, len(recent))
	for i, t := range recent {
		rows[i] = recentRow{
			ID:         t.ID,
			Timestamp:  t.Timestamp.Format(models.TimestampLayout),
			CustomerID: t.CustomerID,
			Items:      counts[t.ID],
			Total:      t.TotalAmount,
		}
	}
	return rows
}

func render(name string, data any) (string, error) {
	var buf strings.Builder
	err := templates.ExecuteTemplate(&buf, name, data)
	return buf.String(), err
}

// money formats an amount as dollars with thousands separators.
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
