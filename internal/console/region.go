package console

import (
	"errors"

	"github.com/dshills/termquest/internal/term"
)

// ErrRegionBounds indicates a region could not be created because it does
// not fit the terminal.
var ErrRegionBounds = errors.New("region does not fit terminal bounds")

// Region is an owned rectangular sub-area of the terminal surface with its
// own coordinate origin. Regions are created and destroyed as a group by the
// surface; a released region ignores all drawing calls, so a stale handle is
// harmless rather than undefined.
type Region struct {
	x, y          int
	width, height int
	released      bool
}

// newRegion creates a region, failing if the rectangle is degenerate or
// extends past the terminal. This mirrors the window-creation failure mode
// of a curses backend, where an out-of-bounds window simply cannot be made.
func newRegion(x, y, width, height, termWidth, termHeight int) (*Region, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrRegionBounds
	}
	if x < 0 || y < 0 || x+width > termWidth || y+height > termHeight {
		return nil, ErrRegionBounds
	}
	return &Region{x: x, y: y, width: width, height: height}, nil
}

// release invalidates the region. Further draws are no-ops.
func (r *Region) release() {
	r.released = true
}

// Width returns the region width in columns.
func (r *Region) Width() int { return r.width }

// Height returns the region height in rows.
func (r *Region) Height() int { return r.height }

// setLine writes text on one row of the region, clipped to the region width.
// Remaining columns are left untouched; the surface clears the frame first.
func (r *Region) setLine(b term.Backend, row int, text string, style term.Style) {
	if r == nil || r.released || row < 0 || row >= r.height {
		return
	}
	col := 0
	for _, ch := range text {
		if col >= r.width {
			break
		}
		b.SetCell(r.x+col, r.y+row, ch, style)
		col++
	}
}

// box draws the region border with an optional title on the top edge. The
// title is omitted when the region is too narrow to hold it.
func (r *Region) box(b term.Backend, title string) {
	if r == nil || r.released || r.width < 2 || r.height < 2 {
		return
	}

	right := r.x + r.width - 1
	bottom := r.y + r.height - 1

	for x := r.x + 1; x < right; x++ {
		b.SetCell(x, r.y, '─', term.StyleBorder)
		b.SetCell(x, bottom, '─', term.StyleBorder)
	}
	for y := r.y + 1; y < bottom; y++ {
		b.SetCell(r.x, y, '│', term.StyleBorder)
		b.SetCell(right, y, '│', term.StyleBorder)
	}
	b.SetCell(r.x, r.y, '┌', term.StyleBorder)
	b.SetCell(right, r.y, '┐', term.StyleBorder)
	b.SetCell(r.x, bottom, '└', term.StyleBorder)
	b.SetCell(right, bottom, '┘', term.StyleBorder)

	if title == "" || len(title)+4 > r.width {
		return
	}
	col := r.x + 2
	for _, ch := range title {
		b.SetCell(col, r.y, ch, term.StyleTitle)
		col++
	}
}

// cursorOrigin reports the screen coordinates of the region origin.
func (r *Region) cursorOrigin() (x, y int) {
	return r.x, r.y
}
