// Package game hosts the particle field in an ebiten window.
package game

import (
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/corner-viz/internal/audio"
	"github.com/iburimskiy/corner-viz/internal/config"
	"github.com/iburimskiy/corner-viz/internal/debounce"
	"github.com/iburimskiy/corner-viz/internal/frame"
	"github.com/iburimskiy/corner-viz/internal/particle"
	"github.com/iburimskiy/corner-viz/internal/stimulus"
)

type size struct{ w, h int }

// Game is an ebiten.Game running one particle field. It is also the field's
// Target: the window's outside size is the measured element box.
type Game struct {
	cfg config.Config

	field  *particle.Field
	stop   func()
	frames frame.Queue
	canvas *canvas

	outside size
	resize  *debounce.Debouncer[size]

	bus        *stimulus.Bus
	files      chan string
	dialogOpen atomic.Bool

	player *audio.Player
	beats  *audio.BeatDetector

	lastErr error
}

func NewGame(cfg config.Config) *Game {
	return &Game{
		cfg:     cfg,
		canvas:  newCanvas(),
		outside: size{cfg.Window.Width, cfg.Window.Height},
		resize:  debounce.New[size](cfg.Resize.Debounce()),
		bus:     stimulus.NewBus(),
		files:   make(chan string, 4),
		player:  &audio.Player{},
		beats:   audio.NewBeatDetector(cfg.Audio),
	}
}

func (g *Game) Measure() (float64, float64, float64) {
	return float64(g.outside.w), float64(g.outside.h), ebiten.Monitor().DeviceScaleFactor()
}

// Bus is where outside code reports attribute changes such as a file
// becoming ready.
func (g *Game) Bus() *stimulus.Bus { return g.bus }

// Pulse kicks the particles hard. Call it from the game loop only.
func (g *Game) Pulse() { g.field.Pulse() }

func (g *Game) mount() {
	g.field = particle.Mount(g,
		particle.WithConfig(g.cfg.Field),
		particle.WithRand(particle.NewRand(g.cfg.Field.Seed)),
	)
	g.field.Subscribe(g.bus.Attribute(stimulus.AttrFileReady))
	g.stop = g.field.Run(&g.frames)
	s := g.field.Surface()
	log.Printf("field mounted at %gx%g (dpr %g)", s.Width, s.Height, s.DPR)
}

func (g *Game) Update() error {
	now := time.Now()

	if sz, ok := g.resize.Poll(now); ok {
		g.field.Resize()
		log.Printf("resized to %dx%d", sz.w, sz.h)
	}

	g.takeFiles()
	g.bus.Flush()

	if g.cfg.Audio.Enabled {
		if tap := g.player.Tap(); tap != nil && g.beats.Observe(now, tap.Snapshot(config.BeatWindow)) {
			g.field.Pulse()
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		g.openFileDialog()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.field.Pulse()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.toggleRunning()
	}
	return nil
}

func (g *Game) toggleRunning() {
	if g.field.Running() {
		g.stop()
		return
	}
	g.stop = g.field.Run(&g.frames)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.target(screen, g.field.Surface())
	g.frames.Run(g.canvas)

	if g.lastErr != nil {
		ebitenutil.DebugPrintAt(screen, "Error: "+g.lastErr.Error(), 4, 4)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	sz := size{outsideWidth, outsideHeight}
	if g.field == nil {
		g.outside = sz
		g.mount()
	} else if sz != g.outside {
		g.outside = sz
		g.resize.Trigger(time.Now(), sz)
	}
	return g.field.Surface().BackingSize()
}

// takeFiles handles the files picked since the last update.
func (g *Game) takeFiles() {
	for {
		select {
		case path := <-g.files:
			g.fileReady(path)
		default:
			return
		}
	}
}

func (g *Game) fileReady(path string) {
	log.Printf("file ready: %s", path)
	g.lastErr = nil
	if g.cfg.Audio.Enabled && audio.IsAudio(path) {
		if err := g.player.Load(path); err != nil {
			g.lastErr = err
			log.Printf("playing %s: %v", path, err)
		} else {
			g.beats.Reset()
		}
	}
	g.bus.SetAttribute(stimulus.AttrFileReady)
}

// openFileDialog shows the picker off the game loop; the choice arrives on
// g.files.
func (g *Game) openFileDialog() {
	if !g.dialogOpen.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer g.dialogOpen.Store(false)
		filename, err := zenity.SelectFile(
			zenity.Title("Choose a file"),
			zenity.FileFilters{
				{Name: "Audio", Patterns: []string{"*.wav", "*.mp3", "*.flac"}},
				{Name: "All files", Patterns: []string{"*"}},
			},
		)
		if err != nil {
			if !errors.Is(err, zenity.ErrCanceled) {
				log.Printf("file dialog: %v", err)
			}
			return
		}
		g.files <- filename
	}()
}

// Close releases the audio device.
func (g *Game) Close() {
	g.player.Close()
}
