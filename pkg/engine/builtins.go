package engine

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/chazu/satforge/pkg/geom"
	"github.com/chazu/satforge/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/golang/glog"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpConnector wraps a connector signature built by `connector` and
// consumed by `part-type`.
type sexpConnector struct {
	sig catalog.Signature
}

func (c *sexpConnector) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(connector %d %d :%s)", c.sig.X, c.sig.Y, c.sig.Direction)
}
func (c *sexpConnector) Type() *zygo.RegisteredType { return nil }

// sexpPartRef is returned by `part-add` so scripts can print what they built.
type sexpPartRef struct {
	part *graph.Part
}

func (p *sexpPartRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(part %q %d)", p.part.Type.Name, p.part.ID)
}
func (p *sexpPartRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseKWArgs pulls out the named keywords and their values; everything
// else, including keywords not in names, stays positional. Direction
// keywords such as :down are positional values, not options.
func parseKWArgs(args []zygo.Sexp, names ...string) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if ok && slices.Contains(names, name) && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
			continue
		}
		result.positional = append(result.positional, args[i])
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toInt extracts an int from a Sexp. Floats are truncated toward zero.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		return int(math.Trunc(v.Val)), nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toDirection converts :up/:right/:down/:left, their string forms, or an
// integer 0-3 to a geom.Direction.
func toDirection(s zygo.Sexp) (geom.Direction, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return geom.ParseDirection(strings.TrimPrefix(str.S, kwPrefix))
	}
	n, err := toInt(s)
	if err != nil {
		return 0, fmt.Errorf("expected direction keyword (:up, :right, :down, :left) or 0-3: %w", err)
	}
	d := geom.Direction(n)
	if !d.Valid() {
		return 0, fmt.Errorf("invalid direction %d, expected 0-3", n)
	}
	return d, nil
}

// argShapeError reports a builtin called with the wrong arguments.
func argShapeError(builtin, shape string) error {
	return fmt.Errorf("%s: argument should be %s", builtin, shape)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the assembly builtins into a zygomys environment.
// The builtins drive the session's cursor and register part types into the
// session's catalog.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the snake_case registrations below.
func registerBuiltins(env *zygo.Zlisp, s *Session) {
	cur := s.Cursor

	// add registers fn under name, refusing calls once the run is halted.
	add := func(name string, fn func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error)) {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if s.halted.Load() {
				return zygo.SexpNull, ErrTimeout
			}
			return fn(env, name, args)
		})
	}

	trace := func(op string, args ...any) {
		if glog.V(1) {
			glog.Infof("[%s] %s %v", s.RunID, op, args)
		}
	}

	// -----------------------------------------------------------------------
	// (connector 0 1 :down)
	// -----------------------------------------------------------------------
	add("connector", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		const shape = "(x, y, direction)"
		if len(args) != 3 {
			return zygo.SexpNull, argShapeError("connector", shape)
		}
		x, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connector: x: %w", err)
		}
		y, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connector: y: %w", err)
		}
		dir, err := toDirection(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connector: direction: %w", err)
		}
		return &sexpConnector{sig: catalog.Signature{X: x, Y: y, Direction: dir}}, nil
	})

	// -----------------------------------------------------------------------
	// (part-type "panel" :glyph "=" (connector 0 0 :up) (connector 0 0 :down))
	// -----------------------------------------------------------------------
	add("part_type", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseKWArgs(args, "glyph")
		if len(pa.positional) < 1 {
			return zygo.SexpNull, argShapeError("part-type", "(name, [:glyph g], connector...)")
		}
		typeName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part-type: name: %w", err)
		}

		spec := catalog.TypeSpec{Name: typeName}
		if v, ok := pa.kw["glyph"]; ok {
			g, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part-type: glyph: %w", err)
			}
			spec.Glyph = g
		}
		for i, a := range pa.positional[1:] {
			c, ok := a.(*sexpConnector)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("part-type: connector %d: expected (connector ...), got %s",
					i, a.SexpString(nil))
			}
			spec.Connectors = append(spec.Connectors, catalog.ConnectorSpec{
				X:   c.sig.X,
				Y:   c.sig.Y,
				Dir: c.sig.Direction.String(),
			})
		}

		pt, err := spec.Build()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part-type: %w", err)
		}
		if err := s.Catalog.Register(pt); err != nil {
			return zygo.SexpNull, fmt.Errorf("part-type: %w", err)
		}
		trace("part-type", typeName, len(spec.Connectors))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (sat-new "Alpha" 10 5)
	// -----------------------------------------------------------------------
	add("sat_new", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		const shape = "(name, x, y)"
		if len(args) != 3 {
			return zygo.SexpNull, argShapeError("sat-new", shape)
		}
		satName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, argShapeError("sat-new", shape)
		}
		x, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, argShapeError("sat-new", shape)
		}
		y, err := toInt(args[2])
		if err != nil {
			return zygo.SexpNull, argShapeError("sat-new", shape)
		}
		trace("sat-new", satName, x, y)
		return zygo.SexpNull, cur.NewSatellite(satName, x, y)
	})

	// -----------------------------------------------------------------------
	// (sat-select "Alpha")
	// -----------------------------------------------------------------------
	add("sat_select", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		const shape = "(satellite name)"
		if len(args) != 1 {
			return zygo.SexpNull, argShapeError("sat-select", shape)
		}
		satName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, argShapeError("sat-select", shape)
		}
		trace("sat-select", satName)
		return zygo.SexpNull, cur.SelectSatellite(satName)
	})

	// -----------------------------------------------------------------------
	// (part-last)
	// -----------------------------------------------------------------------
	add("part_last", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, argShapeError("part-last", "none")
		}
		trace("part-last")
		return zygo.SexpNull, cur.SwapToLast()
	})

	// -----------------------------------------------------------------------
	// (part-root)
	// -----------------------------------------------------------------------
	add("part_root", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, argShapeError("part-root", "none")
		}
		trace("part-root")
		return zygo.SexpNull, cur.GoToRoot()
	})

	// -----------------------------------------------------------------------
	// (part-go 0 0 :down)
	// -----------------------------------------------------------------------
	add("part_go", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		const shape = "(x, y, direction)"
		if len(args) != 3 {
			return zygo.SexpNull, argShapeError("part-go", shape)
		}
		x, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, argShapeError("part-go", shape)
		}
		y, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, argShapeError("part-go", shape)
		}
		dir, err := toDirection(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part-go: direction: %w", err)
		}
		trace("part-go", x, y, dir)
		return zygo.SexpNull, cur.GoToConnected(x, y, dir)
	})

	// -----------------------------------------------------------------------
	// (part-add "panel" 0 0 :up 0 0 0 :down)
	//   part name, child x, child y, child direction, rotation,
	//   parent x, parent y, parent direction
	// -----------------------------------------------------------------------
	add("part_add", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		const shape = "(part name, child x, child y, child direction, rotation, parent x, parent y, parent direction)"
		if len(args) != 8 {
			return zygo.SexpNull, argShapeError("part-add", shape)
		}
		typeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, argShapeError("part-add", shape)
		}
		var ints [5]int
		for i, idx := range []int{1, 2, 4, 5, 6} {
			n, err := toInt(args[idx])
			if err != nil {
				return zygo.SexpNull, argShapeError("part-add", shape)
			}
			ints[i] = n
		}
		cdir, err := toDirection(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part-add: child direction: %w", err)
		}
		pdir, err := toDirection(args[7])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part-add: parent direction: %w", err)
		}

		cx, cy, rot, px, py := ints[0], ints[1], geom.Rotation(ints[2]), ints[3], ints[4]
		trace("part-add", typeName, cx, cy, cdir, int(rot), px, py, pdir)
		part, err := cur.AttachPart(typeName, cx, cy, cdir, rot, px, py, pdir)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPartRef{part: part}, nil
	})
}
