// Package charts renders the report outputs as static PNG images.
package charts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/mmynk/coffeeshop/internal/report"
)

// DefaultDir is where Export writes when no directory is configured.
const DefaultDir = "analysis_output"

// Chart file names.
const (
	DailySalesTrend = "daily_sales_trend.png"
	HourlyTraffic   = "hourly_traffic.png"
	TopProducts     = "top_products.png"
	CategorySales   = "category_sales.png"
	AOVByDay        = "aov_by_day.png"
)

// maxRenderers caps how many images are drawn at once.
const maxRenderers = 4

type chart struct {
	file   string
	width  vg.Length
	height vg.Length
	build  func(*report.Dataset) (*plot.Plot, error)
}

var all = []chart{
	{DailySalesTrend, 14 * vg.Inch, 6 * vg.Inch, dailySalesTrend},
	{HourlyTraffic, 10 * vg.Inch, 6 * vg.Inch, hourlyTraffic},
	{TopProducts, 12 * vg.Inch, 6 * vg.Inch, topProducts},
	{CategorySales, 8 * vg.Inch, 8 * vg.Inch, categorySales},
	{AOVByDay, 10 * vg.Inch, 6 * vg.Inch, aovByDay},
}

// ErrUnknownChart is returned by Render for a file name not listed by Files.
var ErrUnknownChart = errors.New("unknown chart")

// Files lists the names of every chart Export writes, in a stable order.
func Files() []string {
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.file
	}
	return names
}

// Export renders every chart for d into dir, creating it if needed, and
// returns the written paths in the order of Files.
func Export(ctx context.Context, d *report.Dataset, dir string) ([]string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, len(all))
	var g errgroup.Group
	g.SetLimit(maxRenderers)

	for i, c := range all {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			p, err := c.build(d)
			if err != nil {
				return fmt.Errorf("failed to build %s: %w", c.file, err)
			}
			path := filepath.Join(dir, c.file)
			if err := p.Save(c.width, c.height, path); err != nil {
				return fmt.Errorf("failed to save %s: %w", c.file, err)
			}
			slog.Debug("Chart saved", "path", path)
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Render draws the chart stored under file (one of Files) as PNG to w.
func Render(w io.Writer, d *report.Dataset, file string) error {
	i := slices.IndexFunc(all, func(c chart) bool { return c.file == file })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownChart, file)
	}
	c := all[i]

	p, err := c.build(d)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", c.file, err)
	}
	wt, err := p.WriterTo(c.width, c.height, "png")
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", c.file, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func dailySalesTrend(d *report.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Daily Revenue Trend"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Total Revenue ($)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	days := d.DailyRevenue()
	if len(days) == 0 {
		return p, nil
	}

	pts := make(plotter.XYs, len(days))
	for i, day := range days {
		pts[i].X = float64(day.Date.Unix())
		pts[i].Y = day.Revenue.InexactFloat64()
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Color = plotutil.Color(0)
	points.Color = plotutil.Color(0)
	p.Add(line, points)
	return p, nil
}

func hourlyTraffic(d *report.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Busy Hours (Number of Transactions by Hour)"
	p.X.Label.Text = "Hour of Day"
	p.Y.Label.Text = "Number of Transactions"

	hours := d.HourlyTraffic()
	if len(hours) == 0 {
		return p, nil
	}

	values := make(plotter.Values, len(hours))
	labels := make([]string, len(hours))
	for i, h := range hours {
		values[i] = float64(h.Transactions)
		labels[i] = fmt.Sprint(h.Hour)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.Color(1)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

func topProducts(d *report.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Selling Products", report.DefaultTopProducts)
	p.X.Label.Text = "Quantity Sold"

	top := d.TopProducts(report.DefaultTopProducts)
	if len(top) == 0 {
		return p, nil
	}

	// Nominal axes grow upwards; reverse so the best seller is on top.
	slices.Reverse(top)
	values := make(plotter.Values, len(top))
	names := make([]string, len(top))
	for i, ps := range top {
		values[i] = float64(ps.Quantity)
		names[i] = ps.Name
	}
	bars, err := plotter.NewBarChart(values, vg.Points(16))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalY(names...)
	return p, nil
}

func categorySales(d *report.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Revenue Share by Category"
	p.HideAxes()

	cats := d.CategoryRevenue()
	shares := pie{
		Values: make([]float64, len(cats)),
		Labels: make([]string, len(cats)),
	}
	for i, c := range cats {
		shares.Values[i] = c.Revenue.InexactFloat64()
		shares.Labels[i] = string(c.Category)
	}
	p.Add(shares)
	return p, nil
}

func aovByDay(d *report.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Average Order Value by Day of Week"
	p.X.Label.Text = "Day of Week"
	p.Y.Label.Text = "Average Order Value ($)"

	days := d.WeekdayAverage()
	values := make(plotter.Values, len(days))
	labels := make([]string, len(days))
	for i, day := range days {
		values[i] = day.Average.InexactFloat64()
		labels[i] = day.Day
	}
	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.Color(3)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}
