package console

import "sync"

// MaxLogLines is the maximum number of lines retained by a Log. The oldest
// lines are evicted first once the cap is reached.
const MaxLogLines = 1000

// truncatedLineLimit bounds the copy of an offending line kept after an
// append failure recovery.
const truncatedLineLimit = 80

// Log is a bounded sequence of output lines with a scroll offset. It is
// written by the session loop and read by the surface's draw step; a mutex
// keeps the contract safe even if a future producer appends from another
// goroutine.
type Log struct {
	mu     sync.Mutex
	lines  []string
	max    int
	scroll int
}

// NewLog creates a log with the given capacity. A non-positive capacity
// falls back to MaxLogLines.
func NewLog(max int) *Log {
	if max <= 0 {
		max = MaxLogLines
	}
	return &Log{max: max}
}

// Append pushes a line to the tail, evicting from the head when the cap is
// exceeded. A storage failure mid-append never crashes the session: the log
// resets itself and records a diagnostic plus a truncated copy of the line
// that triggered the failure. If even that fails the append is abandoned.
func (l *Log) Append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			l.recoverAppend(line)
		}
	}()

	l.appendLocked(line)
}

// appendLocked stores one line and snaps the view back to the tail, so new
// output is always visible even if the user had scrolled back.
func (l *Log) appendLocked(line string) {
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.max; over > 0 {
		copy(l.lines, l.lines[over:])
		l.lines = l.lines[:l.max]
	}
	l.scroll = 0
}

// recoverAppend is the fallback after an allocation failure inside Append.
// Called with the lock held.
func (l *Log) recoverAppend(line string) {
	defer func() {
		// Nothing more can be done if recovery itself fails.
		_ = recover()
	}()

	l.lines = nil
	l.scroll = 0
	if len(line) > truncatedLineLimit {
		line = line[:truncatedLineLimit]
	}
	l.appendLocked("[output log reset after an append failure]")
	l.appendLocked(line)
}

// Len returns the number of retained lines.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.lines)
}

// Slice returns the lines that should occupy a viewport of the given height
// with the given scroll offset (lines hidden from the tail). It never
// returns more than viewportHeight lines.
func (l *Log) Slice(viewportHeight, scrollOffset int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.sliceLocked(viewportHeight, scrollOffset)
}

func (l *Log) sliceLocked(viewportHeight, scrollOffset int) []string {
	if viewportHeight <= 0 || len(l.lines) == 0 {
		return nil
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}
	total := len(l.lines)
	end := total - scrollOffset
	if end < 0 {
		end = 0
	}
	start := end - viewportHeight
	if start < 0 {
		start = 0
	}
	out := make([]string, end-start)
	copy(out, l.lines[start:end])
	return out
}

// Visible returns the slice for the current scroll offset, clamped so the
// offset never exceeds the number of hideable lines.
func (l *Log) Visible(viewportHeight int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clampScrollLocked(viewportHeight)
	return l.sliceLocked(viewportHeight, l.scroll)
}

// Scroll adjusts the scroll offset by delta, clamped to
// [0, max(0, total-viewportHeight)]. Positive delta scrolls back in time.
func (l *Log) Scroll(delta, viewportHeight int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.scroll += delta
	l.clampScrollLocked(viewportHeight)
}

// ScrollOffset returns the current scroll offset.
func (l *Log) ScrollOffset() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.scroll
}

func (l *Log) clampScrollLocked(viewportHeight int) {
	maxScroll := len(l.lines) - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if l.scroll > maxScroll {
		l.scroll = maxScroll
	}
	if l.scroll < 0 {
		l.scroll = 0
	}
}
