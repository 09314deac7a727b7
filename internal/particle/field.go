// Package particle implements an ambient field of drifting, glowing points
// joined by faint lines, independent of any particular display host.
package particle

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/corner-viz/internal/config"
)

// Rand is the random source a field draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a PCG source for seed, or a clock-seeded one for seed 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type Option func(*Field)

func WithRand(r Rand) Option {
	return func(f *Field) { f.rng = r }
}

func WithConfig(c config.FieldConfig) Option {
	return func(f *Field) { f.cfg = c }
}

// Field owns a fixed-size set of particles and animates them frame by frame.
// A Field is not safe for concurrent use: every method must be called from
// the host's loop.
//
// A nil *Field is valid; all of its methods do nothing.
type Field struct {
	target    Target
	surface   Surface
	particles []Particle
	rng       Rand
	cfg       config.FieldConfig
	loop      *loop
}

// Mount measures target and seeds the field. It returns nil when there is no
// target to draw into.
func Mount(target Target, opts ...Option) *Field {
	if target == nil {
		return nil
	}
	f := &Field{
		target: target,
		cfg:    config.Default().Field,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = NewRand(f.cfg.Seed)
	}
	f.surface = measure(target)
	f.generate()
	return f
}

func (f *Field) rand(min, max float64) float64 {
	return f.rng.Float64()*(max-min) + min
}

// generate replaces every particle with a fresh one.
func (f *Field) generate() {
	f.particles = f.particles[:0]
	for i := 0; i < f.cfg.ParticleCount; i++ {
		f.particles = append(f.particles, Particle{
			X:      f.rand(0, f.surface.Width),
			Y:      f.rand(0, f.surface.Height),
			VX:     f.rand(-baseSpeed, baseSpeed),
			VY:     f.rand(-baseSpeed, baseSpeed),
			Radius: f.rand(radiusMin, radiusMax),
			Life:   f.rand(lifeMin, lifeMax),
			Color:  Palette[int(f.rng.Float64()*float64(len(Palette)))%len(Palette)],
			Phase:  f.rng.Float64() * math.Pi * 2,
		})
	}
}

// Resize re-measures the target and regenerates the particles to fit it.
func (f *Field) Resize() {
	if f == nil {
		return
	}
	f.surface = measure(f.target)
	f.generate()
}

func (f *Field) Surface() Surface {
	if f == nil {
		return Surface{}
	}
	return f.surface
}

// Particles returns a copy of the current particles.
func (f *Field) Particles() []Particle {
	if f == nil {
		return nil
	}
	return append([]Particle(nil), f.particles...)
}

// SetParticles replaces the particle set with a copy of ps.
func (f *Field) SetParticles(ps []Particle) {
	if f == nil {
		return
	}
	f.particles = append(f.particles[:0], ps...)
}

func (f *Field) kick(amount float64) {
	for i := range f.particles {
		p := &f.particles[i]
		p.VX += f.rand(-amount, amount)
		p.VY += f.rand(-amount, amount)
	}
}

// Pulse gives every particle a strong random velocity kick.
func (f *Field) Pulse() {
	if f == nil {
		return
	}
	f.kick(f.cfg.PulseKick)
}

// Stimulate gives every particle a mild random velocity kick.
func (f *Field) Stimulate() {
	if f == nil {
		return
	}
	f.kick(f.cfg.StimulusKick)
}

// EventSource delivers an external stimulus to its subscribers.
type EventSource interface {
	Subscribe(fn func()) (cancel func())
}

// Subscribe stimulates the field every time src fires.
func (f *Field) Subscribe(src EventSource) (cancel func()) {
	if f == nil || src == nil {
		return func() {}
	}
	return src.Subscribe(f.Stimulate)
}

// Frame advances every particle by one frame and draws the result onto c.
func (f *Field) Frame(c Canvas) {
	if f == nil {
		return
	}
	w, h := f.surface.Width, f.surface.Height
	c.Clear()
	c.FillRect(0, 0, w, h, LinearGradient{
		X1: w, Y1: h,
		Stops: Gradient{{0, backgroundFrom}, {1, backgroundTo}},
	})

	for i := range f.particles {
		p := &f.particles[i]
		p.advance(w, h)
		ratio := BreathingRatio(p.TTL, p.Life)
		radius := DrawRadius(p.Radius, ratio)
		c.FillCircle(p.X, p.Y, radius, p.glow(radius, ratio))
	}

	c.SetComposite(Lighter)
	c.SetStroke(linkColor, linkWidth)
	for i := 0; i < len(f.particles); i++ {
		for j := i + 1; j < len(f.particles); j++ {
			a, b := &f.particles[i], &f.particles[j]
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if d < LinkDistance {
				c.SetAlpha(LinkAlpha(d))
				c.StrokeLine(a.X, a.Y, b.X, b.Y)
			}
		}
	}
	c.SetAlpha(1)
	c.SetComposite(SourceOver)
}
