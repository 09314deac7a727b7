package particle

// Scheduler runs a callback on the host's next display frame.
type Scheduler interface {
	RequestFrame(fn func(Canvas)) (cancel func())
}

type loop struct {
	cancel  func()
	stopped bool
}

// Run draws a frame on every display refresh until the returned stop
// function is called. Calling Run on a running field returns the stop
// function of the loop already in progress.
func (f *Field) Run(s Scheduler) (stop func()) {
	if f == nil {
		return func() {}
	}
	if f.loop != nil {
		return f.loop.stop(f)
	}
	l := &loop{}
	f.loop = l
	var tick func(Canvas)
	tick = func(c Canvas) {
		if l.stopped {
			return
		}
		f.Frame(c)
		if l.stopped {
			return
		}
		l.cancel = s.RequestFrame(tick)
	}
	l.cancel = s.RequestFrame(tick)
	return l.stop(f)
}

func (l *loop) stop(f *Field) func() {
	return func() {
		if l.stopped {
			return
		}
		l.stopped = true
		if l.cancel != nil {
			l.cancel()
		}
		if f.loop == l {
			f.loop = nil
		}
	}
}

// Running reports whether a Run loop is active.
func (f *Field) Running() bool {
	return f != nil && f.loop != nil
}
