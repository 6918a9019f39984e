// Package term provides the terminal backend abstraction for the session.
// It wraps a concrete terminal library behind a small interface so the
// surface and session loop never touch the terminal directly, and so tests
// can run against an in-memory screen.
package term

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
)

// Key represents a keyboard key.
type Key int

// Key constants for special keys. Regular characters use KeyRune with the
// Rune field set.
const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyEscape
	KeyTab
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune

	// Resize event fields
	Width, Height int
}

// Style selects one of the fixed display styles used by the surface.
type Style int

const (
	StyleDefault Style = iota
	StyleBorder
	StyleTitle
	StyleError
)

// Backend is the contract the session core requires from a terminal
// implementation: raw no-echo mode, a non-blocking event poll that reports
// resizes as events, and cell-level drawing primitives. All creation calls
// are fallible and must be checked.
type Backend interface {
	// Init puts the terminal into raw, no-echo mode.
	Init() error

	// Fini restores the terminal to its original state. Safe to call more
	// than once.
	Fini()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// Poll returns the next pending event without blocking. The second
	// return value is false when no event is available.
	Poll() (Event, bool)

	// SetCell writes a single rune at the given position.
	SetCell(x, y int, r rune, style Style)

	// Clear erases the pending frame.
	Clear()

	// Show flushes the pending frame to the terminal.
	Show()

	// ShowCursor places the hardware cursor.
	ShowCursor(x, y int)

	// HideCursor hides the hardware cursor.
	HideCursor()

	// Beep sounds the terminal bell, best-effort.
	Beep()
}
