// Package stimulus carries "attribute changed" signals from anywhere in the
// program to observers running on the render loop.
package stimulus

import "sync"

// AttrFileReady is set whenever a file has been picked and is ready.
const AttrFileReady = "data-file-ready"

// Bus queues attribute changes until the owning loop flushes them. Any
// goroutine may call SetAttribute; Observe, Flush and the observers run on
// the loop.
type Bus struct {
	mu      sync.Mutex
	records []string

	observers map[string][]*observer
}

type observer struct {
	fn func()
}

func NewBus() *Bus {
	return &Bus{observers: map[string][]*observer{}}
}

// SetAttribute records a change of the named attribute. The value is not
// kept: any change counts.
func (b *Bus) SetAttribute(name string) {
	b.mu.Lock()
	b.records = append(b.records, name)
	b.mu.Unlock()
}

// Observe calls fn for every future change of name until cancelled.
func (b *Bus) Observe(name string, fn func()) (cancel func()) {
	o := &observer{fn: fn}
	b.observers[name] = append(b.observers[name], o)
	return func() {
		list := b.observers[name]
		for i, other := range list {
			if other == o {
				b.observers[name] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Flush delivers the queued changes in the order they were recorded and
// returns how many there were.
func (b *Bus) Flush() int {
	b.mu.Lock()
	records := b.records
	b.records = nil
	b.mu.Unlock()

	for _, name := range records {
		for _, o := range append([]*observer(nil), b.observers[name]...) {
			o.fn()
		}
	}
	return len(records)
}

// Attribute adapts one attribute of the bus to a subscribable event source.
func (b *Bus) Attribute(name string) Attribute {
	return Attribute{bus: b, name: name}
}

type Attribute struct {
	bus  *Bus
	name string
}

func (a Attribute) Subscribe(fn func()) (cancel func()) {
	return a.bus.Observe(a.name, fn)
}
