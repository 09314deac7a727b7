package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/corner-viz/internal/particle"
)

const circleSegments = 32

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// canvas draws a particle field onto an ebiten screen image. Logical units
// are multiplied by the device scale before they reach the GPU.
type canvas struct {
	dst   *ebiten.Image
	scale float64

	alpha  float64
	blend  ebiten.Blend
	stroke particle.Color
	width  float64

	vs []ebiten.Vertex
	is []uint16
}

func newCanvas() *canvas {
	return &canvas{alpha: 1, blend: ebiten.BlendSourceOver, width: 1}
}

func (c *canvas) target(dst *ebiten.Image, s particle.Surface) {
	c.dst = dst
	c.scale = s.DPR
}

func (c *canvas) Clear() { c.dst.Clear() }

func (c *canvas) SetAlpha(a float64) { c.alpha = a }

func (c *canvas) SetComposite(op particle.Composite) {
	switch op {
	case particle.Lighter:
		c.blend = ebiten.BlendLighter
	default:
		c.blend = ebiten.BlendSourceOver
	}
}

func (c *canvas) SetStroke(col particle.Color, width float64) {
	c.stroke = col
	c.width = width
}

func (c *canvas) draw() {
	c.dst.DrawTriangles(c.vs, c.is, whiteSubImage, &ebiten.DrawTrianglesOptions{
		Blend:     c.blend,
		AntiAlias: true,
	})
}

// FillRect relies on a linear gradient being affine in position: colors at
// the corners interpolate exactly across the two triangles.
func (c *canvas) FillRect(x, y, w, h float64, g particle.LinearGradient) {
	c.vs, c.is = c.vs[:0], c.is[:0]
	for _, p := range [4][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		col := g.Stops.At(g.Offset(p[0], p[1]))
		c.vs = append(c.vs, vertex(p[0]*c.scale, p[1]*c.scale, col, c.alpha))
	}
	c.is = append(c.is, 0, 1, 2, 1, 2, 3)
	c.draw()
}

// FillCircle tessellates the disc into rings placed at the gradient stops so
// the piecewise linear falloff survives vertex interpolation.
func (c *canvas) FillCircle(cx, cy, r float64, g particle.RadialGradient) {
	if r <= 0 {
		return
	}
	radii := []float64{0}
	for _, s := range g.Stops {
		if d := s.Offset * g.R; d > 0 && d < r {
			radii = append(radii, d)
		}
	}
	radii = append(radii, r)

	c.vs, c.is = c.vs[:0], c.is[:0]
	center := g.Stops.At(g.Offset(math.Hypot(cx-g.X, cy-g.Y)))
	c.vs = append(c.vs, vertex(cx*c.scale, cy*c.scale, center, c.alpha))
	for _, rad := range radii[1:] {
		for k := 0; k < circleSegments; k++ {
			a := 2 * math.Pi * float64(k) / circleSegments
			x, y := cx+math.Cos(a)*rad, cy+math.Sin(a)*rad
			col := g.Stops.At(g.Offset(math.Hypot(x-g.X, y-g.Y)))
			c.vs = append(c.vs, vertex(x*c.scale, y*c.scale, col, c.alpha))
		}
	}

	ring := func(i, k int) uint16 { return uint16(1 + i*circleSegments + k%circleSegments) }
	for k := 0; k < circleSegments; k++ {
		c.is = append(c.is, 0, ring(0, k), ring(0, k+1))
	}
	for i := 1; i < len(radii)-1; i++ {
		for k := 0; k < circleSegments; k++ {
			a, b := ring(i-1, k), ring(i-1, k+1)
			d, e := ring(i, k), ring(i, k+1)
			c.is = append(c.is, a, d, b, b, d, e)
		}
	}
	c.draw()
}

func (c *canvas) StrokeLine(x0, y0, x1, y1 float64) {
	var path vector.Path
	path.MoveTo(float32(x0*c.scale), float32(y0*c.scale))
	path.LineTo(float32(x1*c.scale), float32(y1*c.scale))
	c.vs, c.is = path.AppendVerticesAndIndicesForStroke(c.vs[:0], c.is[:0], &vector.StrokeOptions{
		Width: float32(c.width * c.scale),
	})
	for i := range c.vs {
		c.vs[i].SrcX, c.vs[i].SrcY = 1, 1
		setVertexColor(&c.vs[i], c.stroke, c.alpha)
	}
	c.draw()
}
