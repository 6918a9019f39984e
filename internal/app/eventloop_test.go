package app

import (
	"strings"
	"testing"

	"github.com/dshills/termquest/internal/term"
)

func newTestApp(t *testing.T, width, height int) (*Application, *term.ScreenBuffer) {
	t.Helper()
	app, err := New(Options{PlayerName: "Kieran"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(app.Shutdown)

	sb := term.NewScreenBuffer(width, height)
	if err := app.SetBackend(sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return app, sb
}

func outputLines(app *Application) []string {
	return app.output.Slice(app.output.Len(), 0)
}

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		raw  string
		name string
		args string
	}{
		{"look", "look", ""},
		{"LOOK", "look", ""},
		{"say hello there", "say", "hello there"},
		{"  get   lantern  ", "get", "lantern"},
		{"go\tnorth", "go", "north"},
		{"", "", ""},
		{"   ", "", ""},
	}

	for _, tc := range cases {
		name, args := splitCommand(tc.raw)
		if name != tc.name || args != tc.args {
			t.Errorf("splitCommand(%q) = (%q, %q), expected (%q, %q)",
				tc.raw, name, args, tc.name, tc.args)
		}
	}
}

func TestSubmitCommandEchoesBeforeResponse(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)

	app.submitCommand("look")

	lines := outputLines(app)
	if len(lines) < 2 {
		t.Fatalf("expected echo plus response, got %v", lines)
	}
	if lines[0] != "> look" {
		t.Errorf("expected echo first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "You are in: Start Room") {
		t.Errorf("expected room header after echo, got %q", lines[1])
	}
}

func TestSubmitCommandUnknown(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)

	app.submitCommand("dance")

	lines := outputLines(app)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	if !strings.HasPrefix(lines[1], "Error: Unknown command: 'dance'") {
		t.Errorf("expected error line, got %q", lines[1])
	}
}

func TestSubmitCommandExitStops(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)

	app.submitCommand("exit")

	if !app.stopped.Load() {
		t.Error("expected a stop request")
	}
	lines := outputLines(app)
	if len(lines) != 2 || lines[1] != "Exiting game..." {
		t.Errorf("expected exit message, got %v", lines)
	}
}

func TestSubmitCommandWhitespaceOnlyEchoes(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)

	app.submitCommand("   ")

	lines := outputLines(app)
	if len(lines) != 1 || lines[0] != ">    " {
		t.Errorf("expected echo only, got %v", lines)
	}
}

func TestSubmitCommandSplitsMultilineResponse(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)

	app.submitCommand("help")

	lines := outputLines(app)
	if len(lines) < 3 {
		t.Fatalf("expected help to span several log lines, got %d", len(lines))
	}
	for i, line := range lines {
		if strings.Contains(line, "\n") {
			t.Errorf("line %d still contains a newline: %q", i, line)
		}
	}
}

func TestHandleKeyBeepsWhenTooSmall(t *testing.T) {
	app, sb := newTestApp(t, 8, 2)
	app.handleResize()
	if app.surface.Usable() {
		t.Fatal("expected too-small surface")
	}

	app.handleKey(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: 'x'})

	if sb.Beeps() != 1 {
		t.Errorf("expected 1 beep, got %d", sb.Beeps())
	}
	if app.editor.Buffer() != "" {
		t.Errorf("expected key discarded, got buffer %q", app.editor.Buffer())
	}
}

func TestHandleResizeEmitsTransitionMessage(t *testing.T) {
	app, sb := newTestApp(t, 8, 2)
	app.handleResize()
	if app.surface.Usable() {
		t.Fatal("expected too-small surface")
	}

	sb.Resize(80, 24)
	app.handleResize()

	if !app.surface.Usable() {
		t.Fatal("expected usable surface after resize")
	}
	lines := outputLines(app)
	if len(lines) != 1 || lines[0] != "Terminal resized to usable dimensions." {
		t.Errorf("expected transition message, got %v", lines)
	}

	// A resize between two usable sizes stays quiet.
	sb.Resize(100, 30)
	app.handleResize()
	if got := outputLines(app); len(got) != 1 {
		t.Errorf("expected no extra message, got %v", got)
	}
}

func TestPageKeysScrollOutput(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)
	app.handleResize()
	if !app.surface.Usable() {
		t.Fatal("expected usable surface")
	}

	for i := 0; i < 50; i++ {
		app.output.Append("filler")
	}

	app.handleKey(term.Event{Type: term.EventKey, Key: term.KeyPageUp})
	if app.output.ScrollOffset() == 0 {
		t.Error("expected PageUp to scroll back")
	}

	app.handleKey(term.Event{Type: term.EventKey, Key: term.KeyPageDown})
	if got := app.output.ScrollOffset(); got != 0 {
		t.Errorf("expected PageDown to return to the tail, got offset %d", got)
	}
}

func TestKeySubmissionFlowsToEngine(t *testing.T) {
	app, _ := newTestApp(t, 80, 24)
	app.handleResize()

	for _, r := range "north" {
		app.handleKey(term.Event{Type: term.EventKey, Key: term.KeyRune, Rune: r})
	}
	app.handleKey(term.Event{Type: term.EventKey, Key: term.KeyEnter})

	lines := outputLines(app)
	if len(lines) < 2 || lines[0] != "> north" {
		t.Fatalf("expected echoed command, got %v", lines)
	}
	if lines[1] != "You move north into North Room." {
		t.Errorf("expected move response, got %q", lines[1])
	}
}
