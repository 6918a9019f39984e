package editor

import (
	"errors"
	"time"
)

// MaxHistorySize is the maximum number of retained history entries.
const MaxHistorySize = 100

// ErrEmptyCommand is returned when an empty command is offered to the
// history.
var ErrEmptyCommand = errors.New("empty command")

// HistoryEntry is one previously submitted command with its capture time.
type HistoryEntry struct {
	Command string
	Time    time.Time
}

// History is a bounded FIFO log of submitted commands. Consecutive
// duplicates and empty commands are never stored.
type History struct {
	entries []HistoryEntry
	max     int
}

// NewHistory creates a history with the default capacity.
func NewHistory() *History {
	return &History{max: MaxHistorySize}
}

// Add appends a command. Empty input is an error; a command equal to the
// most recent entry is silently skipped. The oldest entry is evicted once
// the cap is exceeded.
func (h *History) Add(command string) error {
	if command == "" {
		return ErrEmptyCommand
	}
	if n := len(h.entries); n > 0 && h.entries[n-1].Command == command {
		return nil
	}
	h.entries = append(h.entries, HistoryEntry{Command: command, Time: time.Now()})
	if over := len(h.entries) - h.max; over > 0 {
		copy(h.entries, h.entries[over:])
		h.entries = h.entries[:h.max]
	}
	return nil
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	return len(h.entries)
}

// At returns the command at index i, oldest first.
func (h *History) At(i int) (string, bool) {
	if i < 0 || i >= len(h.entries) {
		return "", false
	}
	return h.entries[i].Command, true
}

// Entries returns a copy of the retained entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear removes all entries.
func (h *History) Clear() {
	h.entries = nil
}
