package term

import "sync"

// bufferCell is a single cell of the in-memory screen.
type bufferCell struct {
	r     rune
	style Style
}

// ScreenBuffer implements Backend against an in-memory cell grid. It is used
// by tests that exercise the surface and session loop without a live
// terminal. Events are fed in with PostKey, PostRune, and Resize and consumed
// by Poll in order.
type ScreenBuffer struct {
	mu sync.Mutex

	width, height int
	cells         [][]bufferCell
	events        []Event

	cursorX, cursorY int
	cursorHidden     bool
	initialized      bool
	beeps            int
	shows            int

	// InitErr, when set, is returned from Init to simulate a terminal that
	// cannot enter raw mode.
	InitErr error
}

// NewScreenBuffer creates an in-memory backend with the given dimensions.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{width: width, height: height, cursorHidden: true}
	sb.allocate()
	return sb
}

func (sb *ScreenBuffer) allocate() {
	sb.cells = make([][]bufferCell, sb.height)
	for y := 0; y < sb.height; y++ {
		sb.cells[y] = make([]bufferCell, sb.width)
		for x := 0; x < sb.width; x++ {
			sb.cells[y][x] = bufferCell{r: ' '}
		}
	}
}

func (sb *ScreenBuffer) Init() error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.InitErr != nil {
		return sb.InitErr
	}
	sb.initialized = true
	return nil
}

func (sb *ScreenBuffer) Fini() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.initialized = false
}

func (sb *ScreenBuffer) Size() (int, int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	return sb.width, sb.height
}

func (sb *ScreenBuffer) Poll() (Event, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if len(sb.events) == 0 {
		return Event{}, false
	}
	ev := sb.events[0]
	sb.events = sb.events[1:]
	return ev, true
}

func (sb *ScreenBuffer) SetCell(x, y int, r rune, style Style) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return
	}
	sb.cells[y][x] = bufferCell{r: r, style: style}
}

func (sb *ScreenBuffer) Clear() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.allocate()
}

func (sb *ScreenBuffer) Show() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.shows++
}

func (sb *ScreenBuffer) ShowCursor(x, y int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.cursorX, sb.cursorY = x, y
	sb.cursorHidden = false
}

func (sb *ScreenBuffer) HideCursor() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.cursorHidden = true
}

func (sb *ScreenBuffer) Beep() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.beeps++
}

// PostKey queues a special-key event.
func (sb *ScreenBuffer) PostKey(k Key) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.events = append(sb.events, Event{Type: EventKey, Key: k})
}

// PostRune queues a printable-character event.
func (sb *ScreenBuffer) PostRune(r rune) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.events = append(sb.events, Event{Type: EventKey, Key: KeyRune, Rune: r})
}

// PostText queues one key event per byte of text.
func (sb *ScreenBuffer) PostText(text string) {
	for _, r := range text {
		sb.PostRune(r)
	}
}

// Resize changes the grid dimensions and queues a resize event, the way a
// real terminal delivers one after the fact.
func (sb *ScreenBuffer) Resize(width, height int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.width, sb.height = width, height
	sb.allocate()
	sb.events = append(sb.events, Event{Type: EventResize, Width: width, Height: height})
}

// Row returns the contents of a screen row as a string.
func (sb *ScreenBuffer) Row(y int) string {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if y < 0 || y >= sb.height {
		return ""
	}
	runes := make([]rune, sb.width)
	for x := 0; x < sb.width; x++ {
		runes[x] = sb.cells[y][x].r
	}
	return string(runes)
}

// Cursor reports the cursor position and whether it is visible.
func (sb *ScreenBuffer) Cursor() (x, y int, visible bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	return sb.cursorX, sb.cursorY, !sb.cursorHidden
}

// Beeps reports how many times the bell has sounded.
func (sb *ScreenBuffer) Beeps() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	return sb.beeps
}
