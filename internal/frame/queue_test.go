package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/corner-viz/internal/particle"
	"github.com/iburimskiy/corner-viz/internal/raster"
)

type box struct{ w, h, dpr float64 }

func (b box) Measure() (float64, float64, float64) { return b.w, b.h, b.dpr }

func TestQueueOrderAndCancel(t *testing.T) {
	var q Queue
	var got []int
	q.RequestFrame(func(particle.Canvas) { got = append(got, 1) })
	cancel := q.RequestFrame(func(particle.Canvas) { got = append(got, 2) })
	q.RequestFrame(func(particle.Canvas) { got = append(got, 3) })
	cancel()
	cancel()

	assert.Equal(t, 2, q.Run(nil))
	assert.Equal(t, []int{1, 3}, got)
	assert.Equal(t, 0, q.Run(nil))
}

func TestRequestDuringRunWaitsForNextFrame(t *testing.T) {
	var q Queue
	n := 0
	var tick func(particle.Canvas)
	tick = func(particle.Canvas) {
		n++
		q.RequestFrame(tick)
	}
	q.RequestFrame(tick)

	q.Run(nil)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, q.Len())
	q.Run(nil)
	assert.Equal(t, 2, n)
}

func TestFieldLoopOnQueue(t *testing.T) {
	f := particle.Mount(box{400, 300, 2}, particle.WithRand(particle.NewRand(3)))
	require.NotNil(t, f)
	c := raster.New(f.Surface())

	var q Queue
	stop := f.Run(&q)
	assert.Equal(t, 1, q.Run(c))

	ps := f.Particles()
	assert.Len(t, ps, 28)
	for _, p := range ps {
		assert.Equal(t, 1, p.TTL)
		assert.True(t, p.X >= -20 && p.X <= 420)
		assert.True(t, p.Y >= -20 && p.Y <= 320)
	}
	b := c.Image().Bounds()
	assert.Equal(t, 800, b.Dx())
	assert.Equal(t, 600, b.Dy())

	stop()
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Run(c))
}
