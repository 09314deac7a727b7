package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/corner-viz/internal/particle"
)

// setVertexColor writes c, scaled by alpha, as a straight-alpha vertex color.
func setVertexColor(v *ebiten.Vertex, c particle.Color, alpha float64) {
	v.ColorR = float32(c.R) / 255
	v.ColorG = float32(c.G) / 255
	v.ColorB = float32(c.B) / 255
	v.ColorA = float32(clamp01(c.A * alpha))
}

func vertex(x, y float64, c particle.Color, alpha float64) ebiten.Vertex {
	v := ebiten.Vertex{
		DstX: float32(x),
		DstY: float32(y),
		SrcX: 1,
		SrcY: 1,
	}
	setVertexColor(&v, c, alpha)
	return v
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
