package charts

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("charts: no data")

const (
	marginLeft   = 140.0
	marginRight  = 30.0
	marginTop    = 45.0
	marginBottom = 50.0
)

// HorizontalBar plots values as bars from top to bottom in input order.
func HorizontalBar(title string, labels []string, values []float64, s Size) ([]byte, error) {
	if err := checkSeries(labels, values); err != nil {
		return nil, err
	}
	c := newCanvas(s)
	c.title(title)

	maxV := maxOf(values)
	plotW := float64(s.Width) - marginLeft - marginRight
	plotH := float64(s.Height) - marginTop - marginBottom
	slot := plotH / float64(len(values))

	for i, v := range values {
		y0 := marginTop + float64(i)*slot + slot*0.15
		y1 := y0 + slot*0.7
		w := 0.0
		if maxV > 0 {
			w = v / maxV * plotW
		}
		c.rect(marginLeft, y0, marginLeft+w, y1, pastel[i%len(pastel)])
		c.text(marginLeft-8, (y0+y1)/2+4, truncate(labels[i], 18), 2, ink)
		c.text(marginLeft+w+6, (y0+y1)/2+4, formatValue(v), 0, ink)
	}
	c.line(marginLeft, marginTop, marginLeft, marginTop+plotH, 1, ink)
	c.line(marginLeft, marginTop+plotH, marginLeft+plotW, marginTop+plotH, 1, ink)
	c.text(marginLeft+plotW/2, float64(s.Height)-15, "Frequency", 1, ink)
	return c.png()
}

// Pie plots values as slices starting at 140 degrees, counter-clockwise,
// each labeled with its percentage, and a legend on the right.
func Pie(title string, labels []string, values []float64, s Size) ([]byte, error) {
	if err := checkSeries(labels, values); err != nil {
		return nil, err
	}
	total := 0.0
	for _, v := range values {
		if v < 0 {
			return nil, fmt.Errorf("charts: negative pie value %v", v)
		}
		total += v
	}
	if total == 0 {
		return nil, ErrNoData
	}

	c := newCanvas(s)
	c.title(title)

	legendW := 180.0
	cx := (float64(s.Width) - legendW) / 2
	cy := float64(s.Height)/2 + 10
	r := math.Min(cx, cy-marginTop) - 20

	angle := 140.0 * math.Pi / 180
	for i, v := range values {
		sweep := v / total * 2 * math.Pi
		clr := pastel[i%len(pastel)]
		c.polygon(wedge(cx, cy, r, angle, sweep), clr)

		mid := angle + sweep/2
		lx, ly := cx+0.6*r*math.Cos(mid), cy-0.6*r*math.Sin(mid)
		c.text(lx, ly+4, fmt.Sprintf("%.1f%%", v/total*100), 1, ink)

		ly = marginTop + float64(i)*22
		lxLegend := float64(s.Width) - legendW
		c.rect(lxLegend, ly, lxLegend+14, ly+14, clr)
		c.text(lxLegend+20, ly+12, truncate(labels[i], 22), 0, ink)

		angle += sweep
	}
	return c.png()
}

// Line plots values left to right with a marker at each point.
func Line(title, xTitle, yTitle string, labels []string, values []float64, s Size) ([]byte, error) {
	if err := checkSeries(labels, values); err != nil {
		return nil, err
	}
	c := newCanvas(s)
	c.title(title)

	lo, hi := minOf(values), maxOf(values)
	plot := newFrame(s, lo, hi)
	plot.axes(c, xTitle, yTitle)

	step := 0.0
	if len(values) > 1 {
		step = plot.w / float64(len(values)-1)
	}
	blue := viridis[2]
	var px, py float64
	for i, v := range values {
		x := plot.x0 + float64(i)*step
		if len(values) == 1 {
			x = plot.x0 + plot.w/2
		}
		y := plot.y(v)
		if i > 0 {
			c.line(px, py, x, y, 2, blue)
		}
		c.circle(x, y, 4, blue)
		c.text(x, plot.y0+plot.h+16, labels[i], 1, ink)
		px, py = x, y
	}
	return c.png()
}

// Scatter plots (xs[i], ys[i]) colored by groups[i].
func Scatter(title, xTitle, yTitle string, xs, ys []float64, groups []int, s Size) ([]byte, error) {
	if len(xs) == 0 {
		return nil, ErrNoData
	}
	if len(xs) != len(ys) || len(xs) != len(groups) {
		return nil, fmt.Errorf("charts: series lengths differ (%d, %d, %d)", len(xs), len(ys), len(groups))
	}
	c := newCanvas(s)
	c.title(title)

	plot := newFrame(s, minOf(ys), maxOf(ys))
	plot.axes(c, xTitle, yTitle)

	xlo, xhi := minOf(xs), maxOf(xs)
	if xhi == xlo {
		xlo, xhi = xlo-1, xhi+1
	}
	c.text(plot.x0, plot.y0+plot.h+16, formatValue(xlo), 1, ink)
	c.text(plot.x0+plot.w, plot.y0+plot.h+16, formatValue(xhi), 1, ink)

	for i := range xs {
		x := plot.x0 + (xs[i]-xlo)/(xhi-xlo)*plot.w
		c.circle(x, plot.y(ys[i]), 4, viridis[groupColor(groups[i])])
	}
	return c.png()
}

type frame struct {
	x0, y0, w, h float64
	lo, hi       float64
}

func newFrame(s Size, lo, hi float64) frame {
	if hi == lo {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	return frame{
		x0: 80,
		y0: marginTop,
		w:  float64(s.Width) - 80 - marginRight,
		h:  float64(s.Height) - marginTop - marginBottom,
		lo: lo - pad,
		hi: hi + pad,
	}
}

func (f frame) y(v float64) float64 {
	return f.y0 + f.h - (v-f.lo)/(f.hi-f.lo)*f.h
}

func (f frame) axes(c *canvas, xTitle, yTitle string) {
	for i := 0; i <= 4; i++ {
		v := f.lo + (f.hi-f.lo)*float64(i)/4
		y := f.y(v)
		c.line(f.x0, y, f.x0+f.w, y, 1, grid)
		c.text(f.x0-6, y+4, formatValue(v), 2, ink)
	}
	c.line(f.x0, f.y0, f.x0, f.y0+f.h, 1, ink)
	c.line(f.x0, f.y0+f.h, f.x0+f.w, f.y0+f.h, 1, ink)
	c.text(f.x0+f.w/2, f.y0+f.h+36, xTitle, 1, ink)
	c.text(8, f.y0-10, yTitle, 0, ink)
}

// wedge approximates a pie slice with a polygon, in screen coordinates.
func wedge(cx, cy, r, start, sweep float64) [][2]float64 {
	steps := int(math.Ceil(sweep / (math.Pi / 90)))
	if steps < 1 {
		steps = 1
	}
	pts := make([][2]float64, 0, steps+2)
	pts = append(pts, [2]float64{cx, cy})
	for i := 0; i <= steps; i++ {
		a := start + sweep*float64(i)/float64(steps)
		pts = append(pts, [2]float64{cx + r*math.Cos(a), cy - r*math.Sin(a)})
	}
	return pts
}

func groupColor(g int) int {
	if g < 0 {
		g = -g
	}
	return g % len(viridis)
}

func checkSeries(labels []string, values []float64) error {
	if len(values) == 0 {
		return ErrNoData
	}
	if len(labels) != len(values) {
		return fmt.Errorf("charts: %d labels for %d values", len(labels), len(values))
	}
	return nil
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e9 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Max(m, x)
	}
	return m
}
