// Package term hosts the particle field in a terminal, two pixels per cell.
package term

import (
	"context"
	"image"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/corner-viz/internal/config"
	"github.com/iburimskiy/corner-viz/internal/debounce"
	"github.com/iburimskiy/corner-viz/internal/frame"
	"github.com/iburimskiy/corner-viz/internal/particle"
	"github.com/iburimskiy/corner-viz/internal/raster"
	"github.com/iburimskiy/corner-viz/internal/stimulus"
)

const (
	// Logical field units covered by one terminal cell.
	unitsPerColumn = 4
	unitsPerRow    = 8

	frameInterval = 16 * time.Millisecond // ~60 FPS
	halfBlock     = '▀'
)

type size struct{ cols, rows int }

// Host draws a field onto a tcell screen. Everything but PollEvent runs on the
// goroutine calling Run.
type Host struct {
	screen tcell.Screen
	cfg    config.Config

	field  *particle.Field
	stop   func()
	frames frame.Queue
	canvas *raster.Canvas

	cells  size
	resize *debounce.Debouncer[size]
	bus    *stimulus.Bus
}

// New mounts a field on an initialized screen.
func New(screen tcell.Screen, cfg config.Config) *Host {
	cols, rows := screen.Size()
	h := &Host{
		screen: screen,
		cfg:    cfg,
		cells:  size{cols, rows},
		resize: debounce.New[size](cfg.Resize.Debounce()),
		bus:    stimulus.NewBus(),
	}
	h.field = particle.Mount(h,
		particle.WithConfig(cfg.Field),
		particle.WithRand(particle.NewRand(cfg.Field.Seed)),
	)
	h.canvas = raster.New(h.field.Surface())
	h.field.Subscribe(h.bus.Attribute(stimulus.AttrFileReady))
	h.stop = h.field.Run(&h.frames)
	return h
}

func (h *Host) Measure() (float64, float64, float64) {
	return float64(h.cells.cols * unitsPerColumn), float64(h.cells.rows * unitsPerRow), 1
}

func (h *Host) Field() *particle.Field { return h.field }

// Bus accepts attribute changes from any goroutine.
func (h *Host) Bus() *stimulus.Bus { return h.bus }

// Run draws until ctx is done or the user quits.
func (h *Host) Run(ctx context.Context) error {
	defer h.stop()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !h.handleEvent(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			h.tick(now)
		}
	}
}

// handleEvent returns false when the user asked to quit.
func (h *Host) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
			return false
		case ev.Rune() == 'p':
			h.field.Pulse()
		case ev.Rune() == 'f':
			h.bus.SetAttribute(stimulus.AttrFileReady)
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		if sz := (size{cols, rows}); sz != h.cells {
			h.cells = sz
			h.resize.Trigger(now, sz)
		}
	}
	return true
}

func (h *Host) tick(now time.Time) {
	if sz, ok := h.resize.Poll(now); ok {
		h.field.Resize()
		h.canvas.Resize(h.field.Surface())
		h.screen.Clear()
		log.Printf("resized to %dx%d cells", sz.cols, sz.rows)
	}
	h.bus.Flush()
	if h.frames.Run(h.canvas) > 0 {
		h.present()
	}
}

// present downsamples the canvas into half-block cells: the foreground is
// the top half, the background the bottom half.
func (h *Host) present() {
	img := h.canvas.Image()
	b := img.Bounds()
	cols, rows := h.cells.cols, h.cells.rows
	if cols <= 0 || rows <= 0 {
		return
	}
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			x0, x1 := cx*b.Dx()/cols, (cx+1)*b.Dx()/cols
			top := average(img, x0, x1, (2*cy)*b.Dy()/(2*rows), (2*cy+1)*b.Dy()/(2*rows))
			bottom := average(img, x0, x1, (2*cy+1)*b.Dy()/(2*rows), (2*cy+2)*b.Dy()/(2*rows))
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			h.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	h.screen.Show()
}

// average composites the block over black and returns its mean color.
func average(img *image.RGBA, x0, x1, y0, y1 int) tcell.Color {
	var r, g, b, n int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			// premultiplied channels are already composited over black
			p := img.RGBAAt(x, y)
			r += int(p.R)
			g += int(p.G)
			b += int(p.B)
			n++
		}
	}
	if n == 0 {
		return tcell.NewRGBColor(0, 0, 0)
	}
	return tcell.NewRGBColor(int32(r/n), int32(g/n), int32(b/n))
}
