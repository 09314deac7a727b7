package particle

import "math"

const (
	// Motion parameters
	baseSpeed  = 0.25
	wobbleRate = 0.02
	wobbleX    = 0.15
	wobbleY    = 0.12

	radiusMin = 3
	radiusMax = 10
	lifeMin   = 60
	lifeMax   = 240

	// Particles leaving more than ExitMargin past an edge reenter
	// ReentryInset inside the opposite one.
	ExitMargin   = 20
	ReentryInset = 10

	// Connecting lines
	LinkDistance = 50
	LinkMaxAlpha = 0.12
	linkWidth    = 0.6
)

var (
	Palette = [4]Color{
		mustHex("#7ef0c4"),
		mustHex("#34d399"),
		mustHex("#10b981"),
		mustHex("#86efac"),
	}

	backgroundFrom = RGBA(20, 60, 50, 0.03)
	backgroundTo   = RGBA(16, 50, 40, 0.02)
	glowEdge       = RGBA(16, 40, 32, 0)
	linkColor      = RGBA(34, 211, 153, 0.08)
)

// Particle is one drifting, breathing point of the field.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	// Life is the length, in frames, of one breathing cycle.
	Life  float64
	TTL   int
	Color Color
	Phase float64
}

// advance moves p one frame and wraps it around a w x h surface.
func (p *Particle) advance(w, h float64) {
	angle := p.Phase + float64(p.TTL)*wobbleRate
	p.X += p.VX + math.Cos(angle)*wobbleX
	p.Y += p.VY + math.Sin(angle)*wobbleY
	p.TTL++
	p.X = wrap(p.X, w)
	p.Y = wrap(p.Y, h)
}

func wrap(v, extent float64) float64 {
	if v < -ExitMargin {
		return extent + ReentryInset
	}
	if v > extent+ExitMargin {
		return -ReentryInset
	}
	return v
}

// BreathingRatio oscillates 0 -> 1 -> 0 over each life-frame period and is
// never negative.
func BreathingRatio(ttl int, life float64) float64 {
	return math.Max(0, math.Sin(float64(ttl)/life*math.Pi))
}

// DrawRadius scales a base radius into [0.6r, 1.4r] by the breathing ratio.
func DrawRadius(r, ratio float64) float64 {
	return r * (0.6 + ratio*0.8)
}

// LinkAlpha is the opacity of a line between two particles d units apart.
func LinkAlpha(d float64) float64 {
	if d >= LinkDistance {
		return 0
	}
	return LinkMaxAlpha * (1 - d/LinkDistance)
}

func (p *Particle) glow(radius, ratio float64) RadialGradient {
	return RadialGradient{
		X: p.X,
		Y: p.Y,
		R: radius * 2,
		Stops: Gradient{
			{Offset: 0, Color: p.Color.WithAlpha(0.95 * ratio)},
			{Offset: 0.6, Color: p.Color.WithAlpha(0.25 * ratio)},
			{Offset: 1, Color: glowEdge},
		},
	}
}
