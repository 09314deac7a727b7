package particle

import "sort"

// Composite selects how new drawing combines with what is already on the
// surface.
type Composite int

const (
	SourceOver Composite = iota
	// Lighter adds source and destination colors.
	Lighter
)

type Stop struct {
	Offset float64
	Color  Color
}

// Gradient is a sorted list of color stops over [0,1].
type Gradient []Stop

// At returns the interpolated color at offset t. Offsets outside the stop
// range clamp to the nearest stop.
func (g Gradient) At(t float64) Color {
	if len(g) == 0 {
		return Color{}
	}
	if t <= g[0].Offset {
		return g[0].Color
	}
	last := g[len(g)-1]
	if t >= last.Offset {
		return last.Color
	}
	i := sort.Search(len(g), func(i int) bool { return g[i].Offset > t })
	a, b := g[i-1], g[i]
	span := b.Offset - a.Offset
	if span <= 0 {
		return b.Color
	}
	return lerpColor(a.Color, b.Color, (t-a.Offset)/span)
}

// LinearGradient runs from (X0,Y0) at offset 0 to (X1,Y1) at offset 1.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          Gradient
}

// Offset projects (x,y) onto the gradient axis.
func (l LinearGradient) Offset(x, y float64) float64 {
	dx, dy := l.X1-l.X0, l.Y1-l.Y0
	n := dx*dx + dy*dy
	if n == 0 {
		return 0
	}
	return ((x-l.X0)*dx + (y-l.Y0)*dy) / n
}

// RadialGradient starts at its center with offset 0 and reaches offset 1 at
// radius R.
type RadialGradient struct {
	X, Y, R float64
	Stops   Gradient
}

func (r RadialGradient) Offset(dist float64) float64 {
	if r.R <= 0 {
		return 1
	}
	return dist / r.R
}

// Canvas is the 2D drawing surface a Field renders onto. Coordinates are
// logical units; implementations apply the device pixel ratio themselves.
type Canvas interface {
	Clear()
	FillRect(x, y, w, h float64, g LinearGradient)
	// FillCircle fills a disc of radius r with g.
	FillCircle(cx, cy, r float64, g RadialGradient)
	SetStroke(c Color, width float64)
	StrokeLine(x0, y0, x1, y1 float64)
	SetComposite(op Composite)
	// SetAlpha sets the global alpha applied to every subsequent draw.
	SetAlpha(a float64)
}
