// Package frame queues per-frame callbacks for hosts that drive their own
// display loop.
package frame

import "github.com/iburimskiy/corner-viz/internal/particle"

type request struct {
	id int
	fn func(particle.Canvas)
}

// Queue is a particle.Scheduler. Callbacks requested during Run wait for the
// next Run, so a self-rescheduling loop draws once per display frame.
type Queue struct {
	next    int
	pending []request
}

func (q *Queue) RequestFrame(fn func(particle.Canvas)) (cancel func()) {
	q.next++
	id := q.next
	q.pending = append(q.pending, request{id: id, fn: fn})
	return func() {
		for i, r := range q.pending {
			if r.id == id {
				q.pending = append(q.pending[:i:i], q.pending[i+1:]...)
				return
			}
		}
	}
}

// Run invokes every callback pending at the time of the call, in request
// order, and returns how many ran.
func (q *Queue) Run(c particle.Canvas) int {
	batch := q.pending
	q.pending = nil
	ran := 0
	for _, r := range batch {
		r.fn(c)
		ran++
	}
	return ran
}

func (q *Queue) Len() int { return len(q.pending) }
