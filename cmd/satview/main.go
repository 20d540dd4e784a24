// Command satview runs satellite assembly scripts and shows the result in
// the terminal, as a part listing, or as 3D meshes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/chazu/satforge/pkg/kernel/sdfx"
	"github.com/chazu/satforge/pkg/layout"
	"github.com/chazu/satforge/pkg/render"
	"github.com/docopt/docopt-go"
	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"
)

const SatviewVersion = "0.1.0"

const usage = `Satellite assembly viewer.

Usage:
    satview render <script> [--catalog=<file>...] [--v=<level>]
    satview layout <script> [--catalog=<file>...] [--v=<level>]
    satview mesh <script> [--catalog=<file>...] [--cells=<n>] [--out=<file>] [--v=<level>]
    satview types [--catalog=<file>...] [--v=<level>]
    satview -h | --help
    satview --version

Options:
    -h --help         Show this screen.
    --version         Show version.
    --catalog=<file>  YAML part catalog. Repeat to merge several.
    --cells=<n>       Marching cubes resolution per part [default: 64].
    --out=<file>      Write mesh JSON to a file instead of stdout.
    --v=<level>       Log verbosity [default: 0].`

// errFailed marks a run whose diagnostics were already printed.
var errFailed = errors.New("failed")

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], SatviewVersion)
	if err != nil {
		panic(err)
	}

	flag.Set("logtostderr", "true")
	if v, _ := opts.String("--v"); v != "" {
		flag.Set("v", v)
	}

	err = run(opts, os.Stdout)
	glog.Flush()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "satview: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(opts docopt.Opts, out io.Writer) error {
	paths, _ := opts["--catalog"].([]string)
	cat, err := loadCatalogs(paths)
	if err != nil {
		return err
	}

	if types_, _ := opts.Bool("types"); types_ {
		return listTypes(cat, out)
	}

	cells := sdfx.DefaultMeshCells
	if s, _ := opts.String("--cells"); s != "" {
		cells, err = strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("--cells: %w", err)
		}
	}
	app := NewApp(cat, sdfx.NewWithCells(cells))

	scriptPath, _ := opts.String("<script>")
	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return err
	}
	result := app.Build(string(source))
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "%s: %s\n", scriptPath, w.Error())
	}
	if !result.OK() {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", scriptPath, e.Error())
		}
		// Stop only if nothing was built. A satellite that failed layout
		// leaves the others worth showing.
		if result.Session == nil {
			return errFailed
		}
	}

	var cmdErr error
	if layout_, _ := opts.Bool("layout"); layout_ {
		cmdErr = listPlacements(result.Placements, out)
	} else if mesh_, _ := opts.Bool("mesh"); mesh_ {
		outPath, _ := opts.String("--out")
		cmdErr = writeMeshes(app, result, outPath, out)
	} else if render_, _ := opts.Bool("render"); render_ {
		cmdErr = renderTerminal(result)
	}
	if cmdErr != nil {
		return cmdErr
	}
	if !result.OK() {
		return errFailed
	}
	return nil
}

func listTypes(cat *catalog.Catalog, out io.Writer) error {
	for _, name := range cat.Names() {
		pt, err := cat.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-12s %-4s", pt.Name, string(pt.Glyphs))
		for _, c := range pt.Connectors() {
			fmt.Fprintf(out, " %s", c.Signature())
		}
		fmt.Fprintln(out)
	}
	return nil
}

func listPlacements(pls []layout.Placement, out io.Writer) error {
	for _, pl := range pls {
		_, err := fmt.Fprintf(out, "%-20s %-10s %-5s %c\n",
			pl.Part, pl.At, pl.Rotation, pl.Type.Glyph(pl.Rotation))
		if err != nil {
			return err
		}
	}
	return nil
}

func writeMeshes(app *App, result *Result, path string, out io.Writer) error {
	meshes, err := app.Meshes(result)
	if err != nil {
		return err
	}
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	return enc.Encode(struct {
		Meshes []MeshData `json:"meshes"`
	}{meshes})
}

func renderTerminal(result *Result) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	v := render.NewView(screen)
	if sats := result.Session.Fleet().Satellites(); len(sats) > 0 {
		v.Center(sats[0].Origin())
	}
	w, _ := screen.Size()
	err = v.Run(ctx, result.Frame(w))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
