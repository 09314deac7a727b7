// Package raster draws a particle field into an in-memory RGBA image.
package raster

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/iburimskiy/corner-viz/internal/particle"
)

// Canvas is a software particle.Canvas. Its backing image is the surface's
// logical size times the device pixel ratio; drawing calls take logical
// units.
type Canvas struct {
	img   *image.RGBA
	scale float64

	alpha  float64
	op     particle.Composite
	stroke particle.Color
	width  float64

	ras  *vector.Rasterizer
	mask *image.Alpha
}

func New(s particle.Surface) *Canvas {
	c := &Canvas{alpha: 1, width: 1}
	c.Resize(s)
	return c
}

// Resize reallocates the backing store for s. Previous contents are lost.
func (c *Canvas) Resize(s particle.Surface) {
	w, h := s.BackingSize()
	c.scale = s.DPR
	if c.img != nil && c.img.Bounds().Dx() == w && c.img.Bounds().Dy() == h {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.mask = image.NewAlpha(c.img.Bounds())
	c.ras = vector.NewRasterizer(w, h)
	c.ras.DrawOp = draw.Src
}

func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

func (c *Canvas) SetComposite(op particle.Composite) { c.op = op }
func (c *Canvas) SetAlpha(a float64)                 { c.alpha = a }

func (c *Canvas) SetStroke(col particle.Color, width float64) {
	c.stroke = col
	c.width = width
}

// pixelSpan converts a logical interval to clipped device pixel indices.
func (c *Canvas) pixelSpan(lo, hi float64, limit int) (int, int) {
	a := int(math.Floor(lo * c.scale))
	b := int(math.Ceil(hi * c.scale))
	return max(a, 0), min(b, limit)
}

func (c *Canvas) FillRect(x, y, w, h float64, g particle.LinearGradient) {
	b := c.img.Bounds()
	x0, x1 := c.pixelSpan(x, x+w, b.Dx())
	y0, y1 := c.pixelSpan(y, y+h, b.Dy())
	for py := y0; py < y1; py++ {
		ly := (float64(py) + 0.5) / c.scale
		for px := x0; px < x1; px++ {
			lx := (float64(px) + 0.5) / c.scale
			c.blend(px, py, g.Stops.At(g.Offset(lx, ly)), 1)
		}
	}
}

func (c *Canvas) FillCircle(cx, cy, r float64, g particle.RadialGradient) {
	if r <= 0 {
		return
	}
	b := c.img.Bounds()
	x0, x1 := c.pixelSpan(cx-r, cx+r, b.Dx())
	y0, y1 := c.pixelSpan(cy-r, cy+r, b.Dy())
	for py := y0; py < y1; py++ {
		ly := (float64(py) + 0.5) / c.scale
		for px := x0; px < x1; px++ {
			lx := (float64(px) + 0.5) / c.scale
			d := math.Hypot(lx-g.X, ly-g.Y)
			// one device pixel of antialiasing at the rim
			coverage := clamp01((r-math.Hypot(lx-cx, ly-cy))*c.scale + 0.5)
			if coverage == 0 {
				continue
			}
			c.blend(px, py, g.Stops.At(g.Offset(d)), coverage)
		}
	}
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1 float64) {
	dx, dy := x1-x0, y1-y0
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	// offset perpendicular to the line by half the stroke width
	half := c.width / 2
	ox, oy := -dy/n*half, dx/n*half

	s := float32(c.scale)
	c.ras.Reset(c.mask.Rect.Dx(), c.mask.Rect.Dy())
	c.ras.MoveTo(float32(x0+ox)*s, float32(y0+oy)*s)
	c.ras.LineTo(float32(x1+ox)*s, float32(y1+oy)*s)
	c.ras.LineTo(float32(x1-ox)*s, float32(y1-oy)*s)
	c.ras.LineTo(float32(x0-ox)*s, float32(y0-oy)*s)
	c.ras.ClosePath()
	c.ras.Draw(c.mask, c.mask.Bounds(), image.Opaque, image.Point{})

	b := c.img.Bounds()
	px0, px1 := c.pixelSpan(math.Min(x0, x1)-half, math.Max(x0, x1)+half, b.Dx())
	py0, py1 := c.pixelSpan(math.Min(y0, y1)-half, math.Max(y0, y1)+half, b.Dy())
	for py := py0; py < py1; py++ {
		for px := px0; px < px1; px++ {
			if cov := c.mask.AlphaAt(px, py).A; cov > 0 {
				c.blend(px, py, c.stroke, float64(cov)/255)
			}
		}
	}
}

// blend composites col onto pixel (px,py) scaled by coverage and the global
// alpha.
func (c *Canvas) blend(px, py int, col particle.Color, coverage float64) {
	a := clamp01(col.A * c.alpha * coverage)
	if a == 0 {
		return
	}
	i := c.img.PixOffset(px, py)
	p := c.img.Pix[i : i+4 : i+4]
	src := [4]float64{
		float64(col.R) / 255 * a,
		float64(col.G) / 255 * a,
		float64(col.B) / 255 * a,
		a,
	}
	for k := range src {
		dst := float64(p[k]) / 255
		var out float64
		switch c.op {
		case particle.Lighter:
			out = math.Min(1, src[k]+dst)
		default:
			out = src[k] + dst*(1-a)
		}
		p[k] = uint8(math.Round(out * 255))
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
