package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pie draws labelled slices proportional to Values, clockwise from twelve
// o'clock. gonum/plot ships no pie plotter.
type pie struct {
	Values []float64
	Labels []string
}

func (p pie) total() float64 {
	sum := 0.0
	for _, v := range p.Values {
		sum += v
	}
	return sum
}

// Plot implements plot.Plotter.
func (p pie) Plot(c draw.Canvas, plt *plot.Plot) {
	total := p.total()
	if total <= 0 {
		return
	}

	center := c.Center()
	radius := 0.4 * vg.Length(math.Min(float64(c.Size().X), float64(c.Size().Y)))

	sty := plt.Legend.TextStyle
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter
	sty.Color = color.Black

	start := math.Pi / 2
	for i, v := range p.Values {
		sweep := -2 * math.Pi * v / total

		var path vg.Path
		path.Move(center)
		path.Arc(center, radius, start, sweep)
		path.Close()
		c.SetColor(plotutil.Color(i))
		c.Fill(path)

		mid := start + sweep/2
		at := vg.Point{
			X: center.X + 1.2*radius*vg.Length(math.Cos(mid)),
			Y: center.Y + 1.2*radius*vg.Length(math.Sin(mid)),
		}
		label := fmt.Sprintf("%.1f%%", 100*v/total)
		if i < len(p.Labels) {
			label = p.Labels[i] + " " + label
		}
		c.FillText(sty, at, label)

		start += sweep
	}
}

// DataRange implements plot.DataRanger with a fixed unit square.
func (pie) DataRange() (xmin, xmax, ymin, ymax float64) {
	return 0, 1, 0, 1
}
