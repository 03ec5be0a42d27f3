package main

import (
	"flag"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/gogpu/ggmap/internal/tui"
	"github.com/gogpu/ggmap/proj"
	"github.com/gogpu/ggmap/render"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/view"
)

func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	common := addCommonFlags(fs)
	logFile := fs.String("log", "ggmap.log", "file receiving the log while the viewer runs (with -v)")
	pointerCode := fs.String("pointer-proj", "EPSG:4326", "projection of the pointer position in the status bar")
	_ = fs.Parse(args)

	// the terminal belongs to the viewer, so logs go to a file
	var logw io.Writer = io.Discard
	if common.verbose {
		f, err := os.Create(*logFile)
		if err != nil {
			return errors.Wrapf(err, "creating %s", *logFile)
		}
		defer func() { _ = f.Close() }()
		logw = f
	}
	common.setupLogging(logw)

	cache := style.NewIconImageCache()
	layers, home, err := common.loadLayers(fs.Args(), cache)
	if err != nil {
		return err
	}
	viewProj, err := proj.Get(common.projection)
	if err != nil {
		return err
	}
	pointerProj, err := proj.Get(*pointerCode)
	if err != nil {
		return err
	}

	redraw := make(chan struct{}, 1)
	m := render.NewMap(view.New(view.WithProjection(viewProj)),
		render.WithIconCache(cache),
		render.WithRedraw(func() {
			select {
			case redraw <- struct{}{}:
			default:
			}
		}))
	names := make([]string, len(layers))
	for i, l := range layers {
		m.AddLayer(l)
		names[i] = l.Name()
	}

	model := tui.New(m,
		tui.WithTitle("ggmap "+strings.Join(names, ", ")),
		tui.WithHome(home),
		tui.WithRedraw(redraw),
		tui.WithPointerProjection(pointerProj))
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
