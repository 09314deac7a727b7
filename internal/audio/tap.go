package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap wraps a beep.Streamer and records the last N samples into a ring buffer
// so the render loop can react to recently played audio.
type Tap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func NewTap(src beep.Streamer, ringSize int) *Tap {
	return &Tap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.filled = min(t.filled+n, len(t.buffer))
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot returns up to the last n recorded samples, most recent last.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.filled)
	out := make([][2]float64, n)
	// Walk backwards from nextIndex - 1, filling from the end
	idx := t.nextIndex
	for i := n - 1; i >= 0; i-- {
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
		out[i] = t.buffer[idx]
	}
	return out
}
