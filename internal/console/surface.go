// Package console owns the split-pane terminal surface: a scrolling output
// region above a single-line input region, each wrapped in a border. The
// surface has two macro-states, usable and too-small, and rebuilds its four
// regions as one atomic group on every reconfiguration.
package console

import (
	"errors"
	"fmt"

	"github.com/dshills/termquest/internal/term"
)

// Minimum terminal dimensions below which the surface reports too-small
// instead of failing outright.
const (
	MinWidth  = 10
	MinHeight = 3
)

// Input region height is clamped to this range as a function of total
// terminal height.
const (
	minInputHeight = 1
	maxInputHeight = 3
)

// ErrTerminalTooSmall indicates the surface could not be configured at the
// current dimensions and is in the too-small state.
var ErrTerminalTooSmall = errors.New("terminal too small")

// Surface owns the four display regions and the terminal backend handle.
// Regions are exclusively owned: no other component may hold one across a
// Configure call, since Configure destroys and replaces the whole set.
type Surface struct {
	backend term.Backend

	width, height int
	outputHeight  int
	inputHeight   int

	outputBorder  *Region
	outputContent *Region
	inputBorder   *Region
	inputContent  *Region

	usable bool
}

// NewSurface creates a surface bound to the given backend. The surface is
// unusable until the first successful Configure.
func NewSurface(backend term.Backend) *Surface {
	return &Surface{backend: backend}
}

// Usable reports whether the surface currently has a live region set.
func (s *Surface) Usable() bool {
	return s.usable
}

// InputWidth returns the visible width of the input content region, or 0
// when the surface is too small.
func (s *Surface) InputWidth() int {
	if !s.usable {
		return 0
	}
	return s.inputContent.Width()
}

// OutputHeight returns the height of the output content region, or 0 when
// the surface is too small.
func (s *Surface) OutputHeight() int {
	if !s.usable {
		return 0
	}
	return s.outputContent.Height()
}

// Configure tears down any existing regions and rebuilds them for the given
// terminal dimensions. On any failure the surface is left in the too-small
// state with no live regions; a partially constructed set is never kept.
func (s *Surface) Configure(height, width int) error {
	s.destroyRegions()
	s.height, s.width = height, width

	if height < MinHeight || width < MinWidth {
		return ErrTerminalTooSmall
	}

	s.inputHeight = clamp(minInputHeight, maxInputHeight, height/5)
	s.outputHeight = height - s.inputHeight

	if err := s.createRegions(); err != nil {
		s.destroyRegions()
		return ErrTerminalTooSmall
	}

	s.usable = true
	return nil
}

// createRegions builds the four regions as one group. The caller tears down
// whatever was created when an error is returned.
func (s *Surface) createRegions() error {
	outputInnerH := innerSize(s.outputHeight)
	outputInnerW := innerSize(s.width)
	inputInnerH := innerSize(s.inputHeight)
	inputInnerW := innerSize(s.width)

	var err error
	if s.outputBorder, err = newRegion(0, 0, s.width, s.outputHeight, s.width, s.height); err != nil {
		return err
	}
	if s.inputBorder, err = newRegion(0, s.outputHeight, s.width, s.inputHeight, s.width, s.height); err != nil {
		return err
	}
	if s.outputContent, err = newRegion(1, 1, outputInnerW, outputInnerH, s.width, s.height); err != nil {
		return err
	}
	if s.inputContent, err = newRegion(1, s.outputHeight+1, inputInnerW, inputInnerH, s.width, s.height); err != nil {
		return err
	}
	return nil
}

// destroyRegions releases and drops the whole region set.
func (s *Surface) destroyRegions() {
	for _, r := range []*Region{s.outputBorder, s.outputContent, s.inputBorder, s.inputContent} {
		if r != nil {
			r.release()
		}
	}
	s.outputBorder = nil
	s.outputContent = nil
	s.inputBorder = nil
	s.inputContent = nil
	s.usable = false
}

// Destroy tears down the region set. The backend itself is owned by the
// caller and restored separately.
func (s *Surface) Destroy() {
	s.destroyRegions()
}

// Draw renders one frame. In the too-small state it renders a single
// diagnostic line; otherwise it draws borders, the visible slice of the
// output log, and the in-progress input line with the cursor placed at
// min(cursor, contentWidth-1).
func (s *Surface) Draw(log *Log, input string, cursor int) {
	s.backend.Clear()

	if !s.usable {
		msg := fmt.Sprintf("Terminal too small: need at least %dx%d, have %dx%d",
			MinWidth, MinHeight, s.width, s.height)
		col := 0
		for _, ch := range msg {
			if col >= s.width {
				break
			}
			s.backend.SetCell(col, 0, ch, term.StyleError)
			col++
		}
		s.backend.HideCursor()
		s.backend.Show()
		return
	}

	s.outputBorder.box(s.backend, "Output")
	s.inputBorder.box(s.backend, "Input")

	lines := log.Visible(s.outputContent.Height())
	for i, line := range lines {
		s.outputContent.setLine(s.backend, i, line, term.StyleDefault)
	}

	s.inputContent.setLine(s.backend, 0, input, term.StyleDefault)

	cx := cursor
	if maxX := s.inputContent.Width() - 1; cx > maxX {
		cx = maxX
	}
	if cx < 0 {
		cx = 0
	}
	ox, oy := s.inputContent.cursorOrigin()
	s.backend.ShowCursor(ox+cx, oy)
	s.backend.Show()
}

// innerSize is the content extent inside a border of the given outer
// extent. Degenerate outer sizes collapse to a single overlapping cell
// rather than failing, matching how the input pane behaves at one or two
// rows tall.
func innerSize(outer int) int {
	switch {
	case outer > 2:
		return outer - 2
	case outer > 0:
		return 1
	default:
		return 0
	}
}

func clamp(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
