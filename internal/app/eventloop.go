package app

import (
	"strings"

	"github.com/dshills/termquest/internal/game"
	"github.com/dshills/termquest/internal/term"
)

// handleEvent routes one backend event: resizes reconfigure the surface,
// keys go to the editor or the scroll handler.
func (app *Application) handleEvent(ev term.Event) {
	switch ev.Type {
	case term.EventResize:
		app.handleResize()
	case term.EventKey:
		app.handleKey(ev)
	}
}

// handleResize re-reads the terminal's actual dimensions and rebuilds the
// surface. Leaving the too-small state puts one informational line in the
// output log.
func (app *Application) handleResize() {
	wasUsable := app.surface.Usable()

	width, height := app.backend.Size()
	if err := app.surface.Configure(height, width); err != nil {
		app.logger.Debug("resize to %dx%d leaves terminal too small", width, height)
		return
	}

	app.editor.Resize(app.surface.InputWidth())
	if !wasUsable {
		app.output.Append("Terminal resized to usable dimensions.")
	}
}

func (app *Application) handleKey(ev term.Event) {
	if !app.surface.Usable() {
		app.backend.Beep()
		return
	}

	switch ev.Key {
	case term.KeyPageUp:
		app.output.Scroll(app.surface.OutputHeight(), app.surface.OutputHeight())
	case term.KeyPageDown:
		app.output.Scroll(-app.surface.OutputHeight(), app.surface.OutputHeight())
	default:
		result := app.editor.ProcessKey(ev)
		if result.Submitted {
			app.submitCommand(result.Command)
		}
	}
}

// submitCommand echoes the raw line, splits it into a case-folded command
// name and its argument string, and forwards it to the engine. Dispatcher
// errors surface as output lines, never as faults.
func (app *Application) submitCommand(raw string) {
	app.output.Append("> " + raw)

	name, args := splitCommand(raw)
	if name == "" {
		return
	}

	if app.engine.ShouldQuit(name, args) {
		app.appendMessage("Exiting game...")
		app.Stop()
		return
	}

	result := app.engine.HandleCommand(name, args)
	if result.Status == game.StatusError {
		app.appendMessage("Error: " + result.Message)
		return
	}
	app.appendMessage(result.Message)
}

// appendMessage appends a possibly multi-line message one log line at a
// time so the visible-slice math stays line-accurate.
func (app *Application) appendMessage(message string) {
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		app.output.Append(line)
	}
}

// splitCommand trims the input and splits it on the first whitespace run
// into a lower-cased command name and the remaining argument text.
func splitCommand(raw string) (name, args string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ""
	}
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		return strings.ToLower(trimmed[:i]), strings.TrimLeft(trimmed[i:], " \t")
	}
	return strings.ToLower(trimmed), ""
}
