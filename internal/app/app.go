// Package app wires the terminal surface, line editor, output log, signal
// dispatcher, and command engine together and drives the cooperative
// session loop.
package app

import (
	"io"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dshills/termquest/internal/console"
	"github.com/dshills/termquest/internal/editor"
	"github.com/dshills/termquest/internal/game"
	"github.com/dshills/termquest/internal/signal"
	"github.com/dshills/termquest/internal/term"
)

// tickInterval bounds CPU usage: each loop iteration sleeps this long after
// drawing. It is also the worst-case latency between a stop request and the
// loop noticing it.
const tickInterval = 20 * time.Millisecond

// Stop signals handled by the session: interrupt and termination requests
// both map to the same cooperative stop.
var stopSignals = []int{int(syscall.SIGINT), int(syscall.SIGTERM)}

// Options configures the application.
type Options struct {
	// PlayerName is the acting character's name.
	PlayerName string

	// WorldPath is an optional JSON world definition.
	WorldPath string

	// ScriptDir is an optional directory of Lua command scripts.
	ScriptDir string

	// SavePath is an optional save file restored at startup.
	SavePath string

	// Debug routes logs to a timestamped file under logs/.
	Debug bool

	// LogLevel sets the logging verbosity.
	LogLevel string
}

// Application is the session coordinator. One Application owns one terminal
// surface and runs one cooperative loop.
type Application struct {
	opts   Options
	logger *Logger

	backend term.Backend
	surface *console.Surface
	output  *console.Log
	editor  *editor.Editor
	engine  *game.Engine
	signals *signal.Dispatcher

	logFile io.Closer
	running atomic.Bool
	stopped atomic.Bool
}

// New creates an application and bootstraps its components in dependency
// order. World, script, and save-file problems are not fatal: the session
// falls back to defaults and logs the reason.
func New(opts Options) (*Application, error) {
	if opts.PlayerName == "" {
		opts.PlayerName = "Kieran"
	}

	app := &Application{
		opts:    opts,
		output:  console.NewLog(console.MaxLogLines),
		editor:  editor.New(0),
		signals: signal.Default(),
	}

	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(opts.LogLevel),
		Prefix: "termquest",
	})
	if opts.Debug {
		file, err := OpenDebugLog("logs")
		if err != nil {
			return nil, &InitError{Component: "debug log", Err: err}
		}
		app.logFile = file
		app.logger.SetOutput(file)
		app.logger.SetLevel(LogLevelDebug)
	}

	world := game.DefaultWorld()
	if opts.WorldPath != "" {
		loaded, err := game.LoadWorld(opts.WorldPath)
		if err != nil {
			app.logger.Warn("world file %s rejected, using built-in world: %v", opts.WorldPath, err)
		} else {
			world = loaded
		}
	}

	app.engine = game.New(opts.PlayerName,
		game.WithWorld(world),
		game.WithLogf(app.logger.Debug),
	)

	if opts.ScriptDir != "" {
		if err := app.engine.RegisterScripts(opts.ScriptDir); err != nil {
			app.logger.Warn("script registration failed: %v", err)
		}
	}

	if opts.SavePath != "" {
		if _, err := os.Stat(opts.SavePath); err == nil {
			if err := app.engine.LoadState(opts.SavePath); err != nil {
				app.logger.Warn("save file %s rejected: %v", opts.SavePath, err)
			}
		}
	}

	return app, nil
}

// SetBackend binds the terminal backend and creates the surface over it.
func (app *Application) SetBackend(backend term.Backend) error {
	if backend == nil {
		return ErrNoBackend
	}
	app.backend = backend
	app.surface = console.NewSurface(backend)
	return nil
}

// Stop requests a cooperative stop. Safe to call from any goroutine,
// including a signal callback; the loop observes it at the top of its next
// iteration.
func (app *Application) Stop() {
	app.stopped.Store(true)
}

// Run drives the session loop until a stop is requested by the quit command
// or a registered signal. Terminal state is always restored on exit; signal
// callbacks never touch the terminal themselves.
func (app *Application) Run() error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer app.backend.Fini()
	defer app.surface.Destroy()

	app.registerSignals()
	defer app.unregisterSignals()

	width, height := app.backend.Size()
	if err := app.surface.Configure(height, width); err != nil {
		// Keep polling and showing the diagnostic until the terminal grows.
		app.logger.Warn("terminal too small at startup: %dx%d", width, height)
	} else {
		app.editor.Resize(app.surface.InputWidth())
		app.output.Append("Console UI Ready. Type 'help' or 'exit'.")
	}

	for !app.stopped.Load() {
		if ev, ok := app.backend.Poll(); ok {
			app.handleEvent(ev)
		}
		app.draw()
		time.Sleep(tickInterval)
	}
	return nil
}

// Shutdown releases resources that outlive Run: the script runtime and the
// debug log file. Safe to call after a failed New is not required; callers
// only invoke it on a constructed Application.
func (app *Application) Shutdown() {
	if app.engine != nil {
		app.engine.Close()
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
	}
}

func (app *Application) registerSignals() {
	for _, sig := range stopSignals {
		if err := app.signals.Register(sig, app.Stop); err != nil {
			app.logger.Warn("failed to register signal %d: %v", sig, err)
		}
	}
}

func (app *Application) unregisterSignals() {
	for _, sig := range stopSignals {
		if err := app.signals.Unregister(sig); err != nil {
			app.logger.Warn("failed to unregister signal %d: %v", sig, err)
		}
	}
}

func (app *Application) draw() {
	app.surface.Draw(app.output, app.editor.Buffer(), app.editor.Cursor())
}
