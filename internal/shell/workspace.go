// Package shell provides the interactive surface of iccview.
// It hosts one reactive binding per model family, routes REPL commands to
// the active binding, and assembles the terminal view (chart, equation,
// controls) after every change event.
package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"iccview/internal/binding"
	"iccview/internal/chart"
	"iccview/internal/config"
	"iccview/internal/equation"
	"iccview/internal/irt"
	"iccview/internal/logger"
)

// view pairs one family's binding with its terminal chart surface.
type view struct {
	binding *binding.Binding
	term    *chart.Terminal
}

// Workspace owns the four model-family views and the currently active one.
// All operations run synchronously on the caller's goroutine.
type Workspace struct {
	settings *config.Settings
	grid     []float64
	views    map[string]*view
	order    []string
	active   string
	eq       *equation.Renderer
	log      *log.Logger
}

// NewWorkspace builds a view for every model family, each backed by its own
// terminal chart but sharing the one immutable sample grid.
func NewWorkspace(settings *config.Settings) (*Workspace, error) {
	theme := chart.LoadTheme(settings.Theme)
	grid := irt.SampleGrid()

	w := &Workspace{
		settings: settings,
		grid:     grid,
		views:    make(map[string]*view),
		eq:       equation.NewRenderer(),
		log:      logger.NewStyledLogger("Workspace"),
	}
	for _, family := range irt.Families() {
		term := chart.NewTerminal(
			chart.WithSize(settings.PlotWidth, settings.PlotHeight),
			chart.WithTheme(theme),
		)
		b, err := binding.New(term, family, grid)
		if err != nil {
			return nil, fmt.Errorf("workspace: %w", err)
		}
		w.views[family.Name] = &view{binding: b, term: term}
		w.order = append(w.order, family.Name)
	}
	w.active = w.order[0]
	return w, nil
}

// Families returns the family names in nesting order.
func (w *Workspace) Families() []string {
	return append([]string(nil), w.order...)
}

// Active returns the name of the active family.
func (w *Workspace) Active() string {
	return w.active
}

// Activate switches the active family.
func (w *Workspace) Activate(name string) error {
	name = strings.ToLower(name)
	if _, ok := w.views[name]; !ok {
		return fmt.Errorf("workspace: unknown model %q (have %s)", name, strings.Join(w.order, ", "))
	}
	w.active = name
	return nil
}

// Set routes a parameter change to the active binding.
func (w *Workspace) Set(param string, value float64) error {
	v := w.activeView()
	if err := v.binding.Set(param, value); err != nil {
		return err
	}
	logger.ParamChange(w.active, param, value)
	return nil
}

// Lock toggles the ability/difficulty lock on the active binding.
func (w *Workspace) Lock(enabled bool) error {
	return w.activeView().binding.SetLock(enabled)
}

// Reset returns every control of the active binding to its default value.
func (w *Workspace) Reset() {
	v := w.activeView()
	for _, ctrl := range v.binding.Controls() {
		if err := v.binding.Set(ctrl.Spec.ID, ctrl.Spec.Default); err != nil {
			w.log.Error("Reset failed", "family", w.active, "param", ctrl.Spec.ID, "error", err)
		}
	}
}

// Export saves a PNG snapshot of the active view. An empty path picks a
// fresh default file name. It returns the path written.
func (w *Workspace) Export(path string) (string, error) {
	if path == "" {
		path = chart.SnapshotName(w.active)
	}
	v := w.activeView()

	surface := chart.NewPNG(8*w.settings.PlotWidth, 24*w.settings.PlotHeight)
	if err := v.binding.PushTo(surface); err != nil {
		return "", err
	}
	if err := surface.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

// Render assembles the active view: chart, equation, controls and lock
// status.
func (w *Workspace) Render() string {
	v := w.activeView()
	family := v.binding.Family()

	var sb strings.Builder
	sb.WriteString(v.term.Render())
	sb.WriteString(w.eq.Render(family.Formula))
	sb.WriteString("\n\n")

	for _, ctrl := range v.binding.Controls() {
		sb.WriteString(fmt.Sprintf("  %-18s %7.2f   [%g, %g] step %g\n",
			ctrl.Spec.Label, ctrl.Value(), ctrl.Spec.Min, ctrl.Spec.Max, ctrl.Spec.Step))
	}

	pt := v.binding.Point()
	sb.WriteString(fmt.Sprintf("\n  P(θ = %.2f) = %.4f\n", pt.Theta, pt.Prob))

	if v.binding.LockSupported() {
		state := "off"
		if v.binding.Locked() {
			state = "on"
		}
		sb.WriteString(fmt.Sprintf("  θ = b lock: %s\n", state))
	}
	return sb.String()
}

func (w *Workspace) activeView() *view {
	return w.views[w.active]
}
