// Command cornerviz-term draws the particle field in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/corner-viz/internal/config"
	"github.com/iburimskiy/corner-viz/internal/term"
)

func main() {
	configPath := flag.String("config", "", "INI file overriding the built-in settings")
	seed := flag.Uint64("seed", 0, "particle random seed (0 seeds from the clock)")
	logPath := flag.String("log", "", "write log output to this file")
	flag.Parse()

	// the screen owns stdout and stderr while running
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Field.Seed = *seed
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := term.New(screen, cfg)

	notifyFileReady(host.Bus())

	if err := host.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("run: %v", err)
	}
}
