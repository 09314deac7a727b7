package particle

import "math"

// MinExtent is the smallest logical width or height a surface is given.
const MinExtent = 100

// Target is the host element a field draws into.
type Target interface {
	// Measure reports the rendered box in logical units and the device
	// pixel ratio.
	Measure() (width, height, dpr float64)
}

// Surface is a measured drawing area.
type Surface struct {
	Width, Height float64
	DPR           float64
}

func measure(t Target) Surface {
	w, h, dpr := t.Measure()
	if dpr <= 0 {
		dpr = 1
	}
	return Surface{
		Width:  math.Max(MinExtent, math.Floor(w)),
		Height: math.Max(MinExtent, math.Floor(h)),
		DPR:    dpr,
	}
}

// BackingSize is the pixel size of the store behind the surface.
func (s Surface) BackingSize() (int, int) {
	return int(math.Floor(s.Width * s.DPR)), int(math.Floor(s.Height * s.DPR))
}
