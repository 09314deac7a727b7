package particle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/corner-viz/internal/config"
)

type fixedTarget struct {
	w, h, dpr float64
}

func (t *fixedTarget) Measure() (float64, float64, float64) { return t.w, t.h, t.dpr }

type line struct {
	x0, y0, x1, y1 float64
	alpha          float64
	op             Composite
}

// recorder is a Canvas that remembers what was drawn.
type recorder struct {
	ops     []string
	circles []RadialGradient
	radii   []float64
	lines   []line
	alpha   float64
	op      Composite
}

func (r *recorder) Clear() { r.ops = append(r.ops, "clear") }
func (r *recorder) FillRect(x, y, w, h float64, g LinearGradient) {
	r.ops = append(r.ops, "background")
}
func (r *recorder) FillCircle(cx, cy, rad float64, g RadialGradient) {
	r.ops = append(r.ops, "particle")
	r.circles = append(r.circles, g)
	r.radii = append(r.radii, rad)
}
func (r *recorder) SetStroke(c Color, width float64) {}
func (r *recorder) StrokeLine(x0, y0, x1, y1 float64) {
	r.ops = append(r.ops, "line")
	r.lines = append(r.lines, line{x0, y0, x1, y1, r.alpha, r.op})
}
func (r *recorder) SetComposite(op Composite) { r.op = op }
func (r *recorder) SetAlpha(a float64)        { r.alpha = a }

func seeded(seed uint64) Option { return WithRand(NewRand(seed)) }

func TestMountNilTargetIsNoop(t *testing.T) {
	f := Mount(nil)
	assert.Nil(t, f)

	// every operation on the missing field is silent
	assert.NotPanics(t, func() {
		f.Pulse()
		f.Stimulate()
		f.Resize()
		f.Frame(&recorder{})
		f.Run(&manualScheduler{})()
		f.Subscribe(nil)()
	})
	assert.Nil(t, f.Particles())
	assert.False(t, f.Running())
}

func TestGenerate(t *testing.T) {
	f := Mount(&fixedTarget{w: 400, h: 300, dpr: 1}, seeded(1))
	ps := f.Particles()
	require.Len(t, ps, 28)
	for _, p := range ps {
		assert.True(t, p.X >= 0 && p.X < 400, "x %g", p.X)
		assert.True(t, p.Y >= 0 && p.Y < 300, "y %g", p.Y)
		assert.True(t, math.Abs(p.VX) <= 0.25 && math.Abs(p.VY) <= 0.25)
		assert.True(t, p.Radius >= 3 && p.Radius < 10)
		assert.True(t, p.Life >= 60 && p.Life < 240)
		assert.Equal(t, 0, p.TTL)
		assert.Contains(t, Palette[:], p.Color)
		assert.True(t, p.Phase >= 0 && p.Phase < 2*math.Pi)
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	a := Mount(&fixedTarget{w: 200, h: 200}, seeded(7))
	b := Mount(&fixedTarget{w: 200, h: 200}, seeded(7))
	assert.Equal(t, a.Particles(), b.Particles())
}

func TestSurfaceMinimumAndDPR(t *testing.T) {
	f := Mount(&fixedTarget{w: 40.7, h: 250.9, dpr: 0}, seeded(1))
	s := f.Surface()
	assert.Equal(t, 100.0, s.Width)
	assert.Equal(t, 250.0, s.Height)
	assert.Equal(t, 1.0, s.DPR)
}

func TestResizeRegenerates(t *testing.T) {
	target := &fixedTarget{w: 400, h: 300, dpr: 1}
	f := Mount(target, seeded(3))
	f.Frame(&recorder{})
	before := f.Particles()

	target.w, target.h = 800, 150
	f.Resize()
	after := f.Particles()
	require.Len(t, after, 28)
	assert.Equal(t, 800.0, f.Surface().Width)
	assert.Equal(t, 150.0, f.Surface().Height)
	for i, p := range after {
		assert.Equal(t, 0, p.TTL, "particle %d carried over", i)
		assert.True(t, p.X < 800 && p.Y < 150)
	}
	assert.NotEqual(t, before, after)
}

func TestWrapKeepsParticlesNearSurface(t *testing.T) {
	f := Mount(&fixedTarget{w: 120, h: 100, dpr: 1}, seeded(11))
	// fast particles cross edges often
	ps := f.Particles()
	for i := range ps {
		ps[i].VX = float64(i%7) - 3
		ps[i].VY = float64(i%5) - 2
	}
	f.SetParticles(ps)
	for frame := 0; frame < 2000; frame++ {
		f.Frame(&recorder{})
		for _, p := range f.Particles() {
			require.True(t, p.X >= -ExitMargin && p.X <= 120+ExitMargin, "x %g", p.X)
			require.True(t, p.Y >= -ExitMargin && p.Y <= 100+ExitMargin, "y %g", p.Y)
		}
	}
}

func TestWrapMargins(t *testing.T) {
	assert.Equal(t, 410.0, wrap(-20.5, 400))
	assert.Equal(t, -10.0, wrap(420.5, 400))
	assert.Equal(t, -20.0, wrap(-20, 400))
	assert.Equal(t, 420.0, wrap(420, 400))
	assert.Equal(t, 55.0, wrap(55, 400))
}

func TestAdvance(t *testing.T) {
	p := Particle{X: 50, Y: 50, VX: 0.1, VY: -0.2, Phase: 0}
	p.advance(400, 300)
	assert.InDelta(t, 50+0.1+0.15, p.X, 1e-12)
	assert.InDelta(t, 50-0.2, p.Y, 1e-12)
	assert.Equal(t, 1, p.TTL)

	p.advance(400, 300)
	assert.InDelta(t, 50.25+0.1+math.Cos(0.02)*0.15, p.X, 1e-12)
	assert.InDelta(t, 49.8-0.2+math.Sin(0.02)*0.12, p.Y, 1e-12)
}

func TestBreathingRatioAndRadius(t *testing.T) {
	for _, life := range []float64{60, 97.5, 239.9} {
		for ttl := 0; ttl < 1000; ttl++ {
			ratio := BreathingRatio(ttl, life)
			require.True(t, ratio >= 0 && ratio <= 1, "ratio %g", ratio)
			r := DrawRadius(5, ratio)
			require.True(t, r >= 3-1e-12 && r <= 7+1e-12, "radius %g", r)
		}
	}
	assert.InDelta(t, 1.0, BreathingRatio(30, 60), 1e-12)
	assert.Equal(t, 0.0, BreathingRatio(90, 60))
	assert.InDelta(t, 1.4*5, DrawRadius(5, 1), 1e-12)
	assert.InDelta(t, 0.6*5, DrawRadius(5, 0), 1e-12)
}

func TestLinkAlpha(t *testing.T) {
	assert.Equal(t, 0.0, LinkAlpha(50))
	assert.Equal(t, 0.0, LinkAlpha(75))
	assert.InDelta(t, 0.06, LinkAlpha(25), 1e-12)
	assert.InDelta(t, 0.12, LinkAlpha(1e-9), 1e-9)
	prev := LinkAlpha(0)
	for d := 0.5; d <= 50; d += 0.5 {
		cur := LinkAlpha(d)
		assert.Less(t, cur, prev, "d=%g", d)
		prev = cur
	}
}

func TestKicksStayInRange(t *testing.T) {
	f := Mount(&fixedTarget{w: 400, h: 300}, seeded(5))
	before := f.Particles()
	f.Pulse()
	for i, p := range f.Particles() {
		assert.True(t, math.Abs(p.VX-before[i].VX) < 0.8)
		assert.True(t, math.Abs(p.VY-before[i].VY) < 0.8)
		assert.Equal(t, before[i].X, p.X)
	}

	before = f.Particles()
	f.Stimulate()
	for i, p := range f.Particles() {
		assert.True(t, math.Abs(p.VX-before[i].VX) < 0.6)
		assert.True(t, math.Abs(p.VY-before[i].VY) < 0.6)
	}
	assert.NotEqual(t, before, f.Particles())
}

func TestKickAmountsFromConfig(t *testing.T) {
	c := config.Default().Field
	c.PulseKick = 0
	f := Mount(&fixedTarget{w: 400, h: 300}, seeded(5), WithConfig(c))
	before := f.Particles()
	f.Pulse()
	assert.Equal(t, before, f.Particles())
}

type source struct{ subs []func() }

func (s *source) Subscribe(fn func()) func() {
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1
	return func() { s.subs[idx] = nil }
}

func (s *source) fire() {
	for _, fn := range s.subs {
		if fn != nil {
			fn()
		}
	}
}

func TestSubscribeStimulates(t *testing.T) {
	f := Mount(&fixedTarget{w: 400, h: 300}, seeded(9))
	src := &source{}
	cancel := f.Subscribe(src)

	before := f.Particles()
	src.fire()
	after := f.Particles()
	assert.NotEqual(t, before, after)
	for i := range after {
		assert.True(t, math.Abs(after[i].VX-before[i].VX) < 0.6)
	}

	cancel()
	src.fire()
	assert.Equal(t, after, f.Particles())
}

func TestFrameOrder(t *testing.T) {
	f := Mount(&fixedTarget{w: 400, h: 300}, seeded(2))
	rec := &recorder{}
	f.Frame(rec)
	require.True(t, len(rec.ops) >= 30)
	assert.Equal(t, "clear", rec.ops[0])
	assert.Equal(t, "background", rec.ops[1])
	for i := 2; i < 30; i++ {
		assert.Equal(t, "particle", rec.ops[i])
	}
	for _, op := range rec.ops[30:] {
		assert.Equal(t, "line", op)
	}
	for _, l := range rec.lines {
		assert.Equal(t, Lighter, l.op)
	}
	assert.Equal(t, SourceOver, rec.op)
	assert.Equal(t, 1.0, rec.alpha)
}

func TestFrameGlowGradient(t *testing.T) {
	f := Mount(&fixedTarget{w: 400, h: 300}, seeded(2))
	rec := &recorder{}
	f.Frame(rec)
	ps := f.Particles()
	for i, g := range rec.circles {
		ratio := BreathingRatio(ps[i].TTL, ps[i].Life)
		assert.InDelta(t, rec.radii[i]*2, g.R, 1e-12)
		require.Len(t, g.Stops, 3)
		assert.InDelta(t, 0.95*ratio, g.Stops[0].Color.A, 1e-12)
		assert.InDelta(t, 0.25*ratio, g.Stops[1].Color.A, 1e-12)
		assert.Equal(t, 0.6, g.Stops[1].Offset)
		assert.Equal(t, 0.0, g.Stops[2].Color.A)
	}
}

func TestEndToEnd400x300(t *testing.T) {
	f := Mount(&fixedTarget{w: 400, h: 300, dpr: 2}, seeded(4))
	sched := &manualScheduler{}
	stop := f.Run(sched)
	defer stop()

	require.True(t, sched.step(&recorder{}))
	ps := f.Particles()
	require.Len(t, ps, 28)
	for _, p := range ps {
		assert.True(t, p.X >= -20 && p.X <= 420)
		assert.True(t, p.Y >= -20 && p.Y <= 320)
	}
	w, h := f.Surface().BackingSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestSingleLinkBetweenCloseParticles(t *testing.T) {
	f := Mount(&fixedTarget{w: 10000, h: 10000, dpr: 1}, seeded(4))
	ps := f.Particles()
	for i := range ps {
		ps[i].VX, ps[i].VY, ps[i].Phase, ps[i].TTL = 0, 0, 0, 0
		ps[i].X = 1500 + float64(i%6)*1500
		ps[i].Y = 1500 + float64(i/6)*1500
	}
	ps[0].X, ps[0].Y = 100, 100
	ps[1].X, ps[1].Y = 125, 100
	f.SetParticles(ps)

	rec := &recorder{}
	f.Frame(rec)
	require.Len(t, rec.lines, 1)
	assert.InDelta(t, 0.06, rec.lines[0].alpha, 1e-9)
	assert.Equal(t, Lighter, rec.lines[0].op)
}

func TestGradientAt(t *testing.T) {
	g := Gradient{
		{Offset: 0, Color: RGBA(0, 0, 0, 1)},
		{Offset: 0.5, Color: RGBA(100, 200, 0, 0.5)},
		{Offset: 1, Color: RGBA(100, 200, 0, 0)},
	}
	assert.Equal(t, RGBA(0, 0, 0, 1), g.At(-1))
	assert.Equal(t, RGBA(50, 100, 0, 0.75), g.At(0.25))
	assert.Equal(t, RGBA(100, 200, 0, 0.25), g.At(0.75))
	assert.Equal(t, RGBA(100, 200, 0, 0), g.At(2))
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#34d399")
	require.NoError(t, err)
	assert.Equal(t, RGBA(0x34, 0xd3, 0x99, 1), c)

	_, err = ParseHex("#34d3")
	assert.Error(t, err)
	_, err = ParseHex("zzzzzz")
	assert.Error(t, err)
}
