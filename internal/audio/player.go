// Package audio plays a picked audio file and listens to it for beats.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/corner-viz/internal/config"
)

var ErrUnsupported = errors.New("unsupported file type")

// IsAudio reports whether path has an extension Open can decode.
func IsAudio(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".mp3", ".flac":
		return true
	}
	return false
}

// Open decodes path based on its extension. Closing the streamer closes the
// file.
func Open(path string) (beep.StreamSeekCloser, beep.Format, error) {
	if !IsAudio(path) {
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return streamer, format, nil
}

// Player owns the speaker and at most one playing file.
type Player struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	tap      *Tap
	initDone bool
}

// Load stops whatever is playing and starts playing path through a Tap.
func (p *Player) Load(path string) error {
	streamer, format, err := Open(path)
	if err != nil {
		return err
	}

	// Prepare audio chain: streamer -> tap -> ctrl
	t := NewTap(streamer, config.VisualRingSize)
	ctrl := &beep.Ctrl{Streamer: t, Paused: false}

	p.mu.Lock()
	defer p.mu.Unlock()

	// (Re)initialize speaker if needed
	bufferSize := format.SampleRate.N(time.Second / 20)
	if !p.initDone {
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			return fmt.Errorf("initializing speaker: %w", err)
		}
		p.initDone = true
	} else if p.format.SampleRate != format.SampleRate {
		// Re-init when sample rate changes
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			return fmt.Errorf("initializing speaker: %w", err)
		}
	} else {
		speaker.Clear()
	}
	p.closeLocked()

	p.streamer = streamer
	p.format = format
	p.tap = t

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		// The callback runs under the speaker lock, which Load may be
		// waiting on while holding p.mu.
		go func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.streamer == streamer {
				p.closeLocked()
			}
		}()
	})))
	return nil
}

// Tap returns the tap of the playing file, or nil.
func (p *Player) Tap() *Tap {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tap
}

func (p *Player) closeLocked() {
	if p.streamer != nil {
		_ = p.streamer.Close()
	}
	p.streamer = nil
	p.tap = nil
}

func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initDone {
		speaker.Clear()
	}
	p.closeLocked()
}
