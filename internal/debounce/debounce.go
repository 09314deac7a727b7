// Package debounce delays an action until a burst of triggers has been quiet
// for a fixed interval. It holds no goroutines or timers: the owning loop
// feeds it the current time.
package debounce

import "time"

// Debouncer keeps the latest triggered value and releases it once no newer
// trigger has arrived for Delay.
type Debouncer[T any] struct {
	Delay time.Duration

	pending  bool
	deadline time.Time
	value    T
}

func New[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{Delay: delay}
}

// Trigger supersedes any pending value with v.
func (d *Debouncer[T]) Trigger(now time.Time, v T) {
	d.value = v
	d.pending = true
	d.deadline = now.Add(d.Delay)
}

// Poll returns the pending value once its quiet interval has passed.
func (d *Debouncer[T]) Poll(now time.Time) (T, bool) {
	var zero T
	if !d.pending || now.Before(d.deadline) {
		return zero, false
	}
	v := d.value
	d.pending = false
	d.value = zero
	return v, true
}

// Cancel drops any pending value.
func (d *Debouncer[T]) Cancel() {
	var zero T
	d.pending = false
	d.value = zero
}

func (d *Debouncer[T]) Pending() bool { return d.pending }
