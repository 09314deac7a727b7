package audio

import (
	"math"
	"time"

	"github.com/iburimskiy/corner-viz/internal/config"
)

// BeatDetector flags sudden rises in loudness: a window whose RMS exceeds the
// running average by Threshold counts as a beat, at most once per Cooldown.
type BeatDetector struct {
	Threshold float64
	Cooldown  time.Duration
	// Smoothing is the weight the running average keeps on each update.
	Smoothing float64

	avg      float64
	lastBeat time.Time
}

func NewBeatDetector(c config.AudioConfig) *BeatDetector {
	return &BeatDetector{
		Threshold: c.BeatThreshold,
		Cooldown:  c.BeatCooldown(),
		Smoothing: config.SmoothingFactor,
	}
}

// Observe feeds one window of samples and reports whether it is a beat.
func (d *BeatDetector) Observe(now time.Time, samples [][2]float64) bool {
	if len(samples) == 0 {
		return false
	}
	level := rms(samples)
	prev := d.avg
	if prev <= 0 {
		d.avg = level
		return false
	}
	d.avg = d.Smoothing*d.avg + (1-d.Smoothing)*level

	if level < prev*d.Threshold {
		return false
	}
	if !d.lastBeat.IsZero() && now.Sub(d.lastBeat) < d.Cooldown {
		return false
	}
	d.lastBeat = now
	return true
}

func (d *BeatDetector) Reset() {
	d.avg = 0
	d.lastBeat = time.Time{}
}

func rms(samples [][2]float64) float64 {
	var sumSquares float64
	for _, s := range samples {
		mono := (s[0] + s[1]) * 0.5
		sumSquares += mono * mono
	}
	return math.Sqrt(sumSquares / float64(len(samples)))
}
