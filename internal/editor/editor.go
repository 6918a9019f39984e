// Package editor implements the line-editing state machine for the input
// region: an in-progress buffer with a cursor, plus bounded command history
// browsed with the up and down arrows.
package editor

import "github.com/dshills/termquest/internal/term"

// Printable byte range accepted by the editor. Editing operates on
// single-byte characters; anything outside this range is ignored.
const (
	printableMin = 0x20
	printableMax = 0x7e
)

// notBrowsing is the history-cursor sentinel for "not browsing".
const notBrowsing = -1

// Result reports the outcome of processing one key.
type Result struct {
	// Redraw is true when the frame should be repainted. Every processed
	// key requests a redraw.
	Redraw bool

	// Submitted is true when Enter completed a non-empty command.
	Submitted bool

	// Command holds the submitted text when Submitted is true.
	Command string
}

// Editor owns the in-progress input line. It converts individual key events
// into edits or a submitted command. All mutations re-clamp the cursor into
// [0, len(buffer)], so no key sequence can leave torn state behind.
type Editor struct {
	buffer    string
	cursor    int
	width     int
	history   *History
	histIndex int
}

// New creates an editor for an input region of the given visible width.
func New(width int) *Editor {
	return &Editor{
		width:     width,
		history:   NewHistory(),
		histIndex: notBrowsing,
	}
}

// ProcessKey applies one key event to the edit state.
func (e *Editor) ProcessKey(ev term.Event) Result {
	result := Result{Redraw: true}

	switch ev.Key {
	case term.KeyBackspace:
		e.backspace()
	case term.KeyDelete:
		e.delete()
	case term.KeyLeft:
		e.cursor--
	case term.KeyRight:
		e.cursor++
	case term.KeyHome:
		e.cursor = 0
	case term.KeyEnd:
		e.cursor = len(e.buffer)
	case term.KeyUp:
		e.historyPrev()
	case term.KeyDown:
		e.historyNext()
	case term.KeyEnter:
		if e.buffer != "" {
			result.Submitted = true
			result.Command = e.buffer
			_ = e.history.Add(e.buffer) // non-empty by the check above
			e.buffer = ""
			e.histIndex = notBrowsing
		}
	case term.KeyRune:
		if ev.Rune >= printableMin && ev.Rune <= printableMax {
			e.insert(byte(ev.Rune))
		}
	default:
		// Unsupported key: no state change, still dirty the frame.
	}

	e.clampCursor()
	return result
}

func (e *Editor) backspace() {
	if e.cursor > 0 {
		e.buffer = e.buffer[:e.cursor-1] + e.buffer[e.cursor:]
		e.cursor--
	}
}

func (e *Editor) delete() {
	if e.cursor < len(e.buffer) {
		e.buffer = e.buffer[:e.cursor] + e.buffer[e.cursor+1:]
	}
}

func (e *Editor) insert(b byte) {
	e.buffer = e.buffer[:e.cursor] + string(b) + e.buffer[e.cursor:]
	e.cursor++
}

// historyPrev moves the history cursor toward the oldest entry, loading the
// entry into the buffer. Does nothing when history is empty.
func (e *Editor) historyPrev() {
	if e.history.Len() == 0 {
		return
	}
	if e.histIndex == notBrowsing {
		e.histIndex = e.history.Len() - 1
	} else if e.histIndex > 0 {
		e.histIndex--
	}
	if cmd, ok := e.history.At(e.histIndex); ok {
		e.buffer = cmd
		e.cursor = len(e.buffer)
	}
}

// historyNext moves the history cursor toward the newest entry; stepping
// past it stops browsing and clears the buffer.
func (e *Editor) historyNext() {
	if e.histIndex == notBrowsing {
		return
	}
	if e.histIndex < e.history.Len()-1 {
		e.histIndex++
		if cmd, ok := e.history.At(e.histIndex); ok {
			e.buffer = cmd
			e.cursor = len(e.buffer)
		}
		return
	}
	e.histIndex = notBrowsing
	e.buffer = ""
	e.cursor = 0
}

func (e *Editor) clampCursor() {
	if e.cursor < 0 {
		e.cursor = 0
	}
	if e.cursor > len(e.buffer) {
		e.cursor = len(e.buffer)
	}
}

// Buffer returns the current input text.
func (e *Editor) Buffer() string {
	return e.buffer
}

// Cursor returns the edit cursor position.
func (e *Editor) Cursor() int {
	return e.cursor
}

// Resize updates the visible width. The buffer and cursor survive a resize;
// only the clamp rule applies.
func (e *Editor) Resize(width int) {
	e.width = width
	e.clampCursor()
}

// History exposes the command history, for tests and for session teardown.
func (e *Editor) History() *History {
	return e.history
}

// TakeInput returns the current buffer and resets the edit state.
func (e *Editor) TakeInput() string {
	out := e.buffer
	e.buffer = ""
	e.cursor = 0
	e.histIndex = notBrowsing
	return out
}
