//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iburimskiy/corner-viz/internal/stimulus"
)

// notifyFileReady marks a file as ready on every SIGUSR1, the terminal
// counterpart of the window host's file dialog.
func notifyFileReady(bus *stimulus.Bus) {
	ready := make(chan os.Signal, 1)
	signal.Notify(ready, syscall.SIGUSR1)
	go func() {
		for range ready {
			bus.SetAttribute(stimulus.AttrFileReady)
		}
	}()
}
