package render

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Overlay is a fixed-size text buffer with a write position, drawn on top
// of the satellites. Writing past the last column wraps to the next row;
// writing past the last row wraps to the top.
type Overlay struct {
	width, height int
	x, y          int
	text          []rune
}

// NewOverlay creates a blank overlay of w by h cells.
func NewOverlay(w, h int) *Overlay {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	o := &Overlay{width: w, height: h, text: make([]rune, w*h)}
	o.Clear()
	return o
}

// Size returns the overlay dimensions.
func (o *Overlay) Size() (int, int) { return o.width, o.height }

// Pos returns the write position.
func (o *Overlay) Pos() (int, int) { return o.x, o.y }

// Clear blanks the buffer and homes the write position.
func (o *Overlay) Clear() {
	o.x, o.y = 0, 0
	for i := range o.text {
		o.text[i] = ' '
	}
}

// Move sets the write position. Out-of-range positions are ignored.
func (o *Overlay) Move(x, y int) {
	if x >= 0 && y >= 0 && x < o.width && y < o.height {
		o.x, o.y = x, y
	}
}

func (o *Overlay) next() {
	o.x++
	if o.x >= o.width {
		o.x = 0
		o.y++
	}
	if o.y >= o.height {
		o.x, o.y = 0, 0
	}
}

// Putc writes one rune. '\n' moves down a row, '\r' returns to column 0.
func (o *Overlay) Putc(r rune) {
	switch r {
	case '\n':
		o.y++
		if o.y >= o.height {
			o.y = 0
		}
	case '\r':
		o.x = 0
	default:
		o.text[o.y*o.width+o.x] = r
		o.next()
	}
}

// Puts writes every rune of s.
func (o *Overlay) Puts(s string) {
	for _, r := range s {
		o.Putc(r)
	}
}

// PutLine writes s and moves to the start of the next row, unless s ended
// exactly at a row boundary and the position is already there.
func (o *Overlay) PutLine(s string) {
	o.Puts(s)
	if o.x != 0 {
		o.Putc('\r')
		o.Putc('\n')
	}
}

// LineRows returns how many rows of width w the lines fill when each is
// written with PutLine. An empty line takes no row.
func LineRows(lines []string, w int) int {
	if w < 1 {
		w = 1
	}
	rows := 0
	for _, l := range lines {
		rows += (utf8.RuneCountInString(l) + w - 1) / w
	}
	return rows
}

// At returns the rune at (x, y), or ' ' outside the buffer.
func (o *Overlay) At(x, y int) rune {
	if x < 0 || y < 0 || x >= o.width || y >= o.height {
		return ' '
	}
	return o.text[y*o.width+x]
}

// Draw blits the non-blank cells of the overlay with its top-left corner at
// (x, y), clipped at the screen edge.
func (o *Overlay) Draw(screen tcell.Screen, x, y int, style tcell.Style) {
	w, h := screen.Size()
	for row := 0; row < o.height; row++ {
		sy := y + row
		if sy < 0 || sy >= h {
			continue
		}
		for col := 0; col < o.width; col++ {
			sx := x + col
			if sx < 0 || sx >= w {
				continue
			}
			if r := o.text[row*o.width+col]; r != ' ' {
				screen.SetContent(sx, sy, r, nil, style)
			}
		}
	}
}
