// Package main is the entry point for the termquest console.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/termquest/internal/app"
	"github.com/dshills/termquest/internal/term"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	terminal, err := term.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(terminal); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool

	flag.StringVar(&opts.PlayerName, "name", "", "Player name")
	flag.StringVar(&opts.PlayerName, "n", "", "Player name (shorthand)")
	flag.StringVar(&opts.WorldPath, "world", "", "Path to a JSON world definition")
	flag.StringVar(&opts.WorldPath, "w", "", "Path to a JSON world definition (shorthand)")
	flag.StringVar(&opts.ScriptDir, "scripts", "", "Directory of Lua command scripts")
	flag.StringVar(&opts.SavePath, "save", "", "Save file to restore at startup")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging to logs/")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug logging to logs/ (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Termquest - terminal adventure console\n\n")
		fmt.Fprintf(os.Stderr, "Usage: termquest [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  termquest                     Start with the built-in world\n")
		fmt.Fprintf(os.Stderr, "  termquest -w world.json       Load a custom world\n")
		fmt.Fprintf(os.Stderr, "  termquest -scripts ./scripts  Load Lua command scripts\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Termquest %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts
}
