package render

import (
	"context"

	"github.com/chazu/satforge/pkg/geom"
	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"
)

// Run draws f and then handles input until the user quits or ctx is done.
// Arrow keys pan the view; Esc, Ctrl-C and q quit. The structure is static,
// so the frame is only redrawn after a pan or a resize.
func (v *View) Run(ctx context.Context, f Frame) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)

	go func() {
		for {
			ev := v.Screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	v.DrawFrame(f)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			redraw, ok := v.handle(ev)
			if !ok {
				return nil
			}
			if redraw {
				v.DrawFrame(f)
			}
		}
	}
}

// handle applies one event. ok is false when the user asked to quit.
func (v *View) handle(ev tcell.Event) (redraw, ok bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false, false
		case tcell.KeyUp:
			v.Pan(geom.Point{Y: -1})
		case tcell.KeyDown:
			v.Pan(geom.Point{Y: 1})
		case tcell.KeyLeft:
			v.Pan(geom.Point{X: -1})
		case tcell.KeyRight:
			v.Pan(geom.Point{X: 1})
		case tcell.KeyRune:
			if ev.Rune() == 'q' || (ev.Rune() == 'c' && ev.Modifiers()&tcell.ModCtrl != 0) {
				return false, false
			}
			return false, true
		default:
			return false, true
		}
		glog.V(2).Infof("view origin %s", v.Origin)
		return true, true

	case *tcell.EventResize:
		v.Screen.Sync()
		return true, true
	}
	return false, true
}
