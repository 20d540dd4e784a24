// Package render draws laid-out satellites onto a tcell text grid.
// One cell is one grid unit; each part is drawn as its type's glyph for the
// part's rotation.
package render

import (
	"github.com/chazu/satforge/pkg/geom"
	"github.com/chazu/satforge/pkg/graph"
	"github.com/chazu/satforge/pkg/layout"
	"github.com/gdamore/tcell/v2"
)

// Styles holds the cell styles used by a View.
type Styles struct {
	Part    tcell.Style
	Root    tcell.Style
	Current tcell.Style
	Text    tcell.Style
}

// DefaultStyles returns the styles used when a View is created.
func DefaultStyles() Styles {
	return Styles{
		Part:    tcell.StyleDefault.Foreground(tcell.ColorWhite),
		Root:    tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		Current: tcell.StyleDefault.Foreground(tcell.ColorGreen).Reverse(true),
		Text:    tcell.StyleDefault.Foreground(tcell.ColorSilver),
	}
}

// Frame is everything drawn in one pass.
type Frame struct {
	Placements []layout.Placement
	Current    *graph.Part // highlighted if non-nil
	Overlay    *Overlay    // drawn at the top-left if non-nil
	Status     string      // bottom line
}

// View maps grid positions onto a screen. Origin is the grid position shown
// in the top-left cell.
type View struct {
	Screen tcell.Screen
	Styles Styles
	Origin geom.Point
}

// NewView creates a View over screen with the default styles.
func NewView(screen tcell.Screen) *View {
	return &View{Screen: screen, Styles: DefaultStyles()}
}

// cell converts a grid position to screen coordinates and reports whether
// it is visible.
func (v *View) cell(at geom.Point) (int, int, bool) {
	w, h := v.Screen.Size()
	x, y := at.X-v.Origin.X, at.Y-v.Origin.Y
	return x, y, x >= 0 && y >= 0 && x < w && y < h
}

// Draw blits every placement and returns how many were visible. Later
// placements overwrite earlier ones at the same cell.
func (v *View) Draw(placements []layout.Placement, current *graph.Part) int {
	drawn := 0
	for _, pl := range placements {
		x, y, ok := v.cell(pl.At)
		if !ok {
			continue
		}
		style := v.Styles.Part
		switch {
		case current != nil && pl.Part == current:
			style = v.Styles.Current
		case pl.Part != nil && pl.Part.IsRoot():
			style = v.Styles.Root
		}
		v.Screen.SetContent(x, y, pl.Type.Glyph(pl.Rotation), nil, style)
		drawn++
	}
	return drawn
}

// DrawFrame clears the screen, draws f and shows it.
func (v *View) DrawFrame(f Frame) {
	v.Screen.Clear()
	v.Draw(f.Placements, f.Current)
	if f.Overlay != nil {
		f.Overlay.Draw(v.Screen, 0, 0, v.Styles.Text)
	}
	if f.Status != "" {
		_, h := v.Screen.Size()
		DrawText(v.Screen, 0, h-1, f.Status, v.Styles.Text)
	}
	v.Screen.Show()
}

// Center moves the origin so that p is in the middle of the screen.
func (v *View) Center(p geom.Point) {
	w, h := v.Screen.Size()
	v.Origin = geom.Point{X: p.X - w/2, Y: p.Y - h/2}
}

// Pan shifts the origin by d.
func (v *View) Pan(d geom.Point) {
	v.Origin = v.Origin.Add(d)
}

// DrawText writes text on one row starting at (x, y), clipped at the
// screen edge. It returns the number of cells written.
func DrawText(screen tcell.Screen, x, y int, text string, style tcell.Style) int {
	w, h := screen.Size()
	if y < 0 || y >= h {
		return 0
	}
	n := 0
	for _, r := range text {
		if x >= w {
			break
		}
		if x >= 0 {
			screen.SetContent(x, y, r, nil, style)
			n++
		}
		x++
	}
	return n
}
