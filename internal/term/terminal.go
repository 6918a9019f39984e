package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Init()
}

func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Poll returns the next pending event without blocking. tcell's PollEvent
// blocks, so availability is checked first; the session loop relies on this
// never stalling an iteration.
func (t *Terminal) Poll() (Event, bool) {
	if !t.screen.HasPendingEvent() {
		return Event{}, false
	}
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{}, false
	}
	converted := convertEvent(ev)
	if converted.Type == EventNone {
		return Event{}, false
	}
	return converted, true
}

func (t *Terminal) SetCell(x, y int, r rune, style Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, r, nil, convertStyle(style))
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; terminal may not support beep
}

// convertStyle maps a surface style to a tcell style.
func convertStyle(s Style) tcell.Style {
	switch s {
	case StyleBorder:
		return tcell.StyleDefault.Foreground(tcell.ColorTeal)
	case StyleTitle:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case StyleError:
		return tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	default:
		return tcell.StyleDefault
	}
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventKey:
		return convertKeyEvent(e)
	default:
		return Event{Type: EventNone}
	}
}

func convertKeyEvent(e *tcell.EventKey) Event {
	ev := Event{Type: EventKey}

	switch e.Key() {
	case tcell.KeyRune:
		ev.Key = KeyRune
		ev.Rune = e.Rune()
	case tcell.KeyEnter:
		ev.Key = KeyEnter
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ev.Key = KeyBackspace
	case tcell.KeyDelete:
		ev.Key = KeyDelete
	case tcell.KeyLeft:
		ev.Key = KeyLeft
	case tcell.KeyRight:
		ev.Key = KeyRight
	case tcell.KeyUp:
		ev.Key = KeyUp
	case tcell.KeyDown:
		ev.Key = KeyDown
	case tcell.KeyHome:
		ev.Key = KeyHome
	case tcell.KeyEnd:
		ev.Key = KeyEnd
	case tcell.KeyPgUp:
		ev.Key = KeyPageUp
	case tcell.KeyPgDn:
		ev.Key = KeyPageDown
	case tcell.KeyEscape:
		ev.Key = KeyEscape
	case tcell.KeyTab:
		ev.Key = KeyTab
	default:
		ev.Key = KeyNone
	}

	return ev
}
