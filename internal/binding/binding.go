// Package binding implements the reactive loop between parameter controls
// and a chart surface. A Binding owns one model family's parameter state,
// recomputes the sampled curve and highlighted point on every change event,
// and pushes the results to whatever chart surface it was constructed with.
package binding

import (
	"fmt"

	"github.com/charmbracelet/log"

	"iccview/internal/irt"
	"iccview/internal/logger"
)

// Trace indices and layout keys shared with every chart surface.
const (
	// TraceCurve holds the full sampled ICC.
	TraceCurve = 0

	// TracePoint holds the single highlighted (theta, P) marker.
	TracePoint = 1

	// LayoutRefLine is the layout key for the vertical reference line's
	// x position.
	LayoutRefLine = "refline.x"
)

// Surface is the chart surface contract the binding depends on. It exposes
// exactly the three operation shapes the redraw pipeline needs; concrete
// implementations live in internal/chart.
type Surface interface {
	// Init creates the chart with an empty curve trace sized to the grid,
	// an empty point marker trace, and a vertical reference line at x = 0.
	Init(title string, grid []float64) error

	// SetTrace replaces the data of the trace at the given index.
	SetTrace(index int, xs, ys []float64) error

	// PatchLayout updates a single layout property.
	PatchLayout(key string, value any) error
}

// Binding wires one model family's controls to a chart surface. All methods
// run synchronously on the caller's goroutine; bindings for different
// families are independent and share only the immutable sample grid.
type Binding struct {
	family   irt.Family
	grid     []float64
	chart    Surface
	controls map[string]*Control
	locked   bool
	last     irt.Point
	log      *log.Logger
}

// New constructs a binding for the given family: one control per parameter
// spec (at its default value), an initialized chart, and an initial redraw.
func New(chart Surface, family irt.Family, grid []float64) (*Binding, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("binding %s: empty sample grid", family.Name)
	}

	b := &Binding{
		family:   family,
		grid:     grid,
		chart:    chart,
		controls: make(map[string]*Control, len(family.Params)),
		log:      logger.NewStyledLogger("Binding"),
	}
	for _, spec := range family.Params {
		b.controls[spec.ID] = NewControl(spec)
	}

	if err := chart.Init(family.Title, grid); err != nil {
		return nil, fmt.Errorf("binding %s: init chart: %w", family.Name, err)
	}
	b.redraw()
	return b, nil
}

// Family returns the model family this binding renders.
func (b *Binding) Family() irt.Family {
	return b.family
}

// Controls returns the controls in the family's declared parameter order,
// for rendering alongside the chart.
func (b *Binding) Controls() []*Control {
	out := make([]*Control, 0, len(b.family.Params))
	for _, spec := range b.family.Params {
		out = append(out, b.controls[spec.ID])
	}
	return out
}

// Set is the change event for one control: store the clamped value, run lock
// synchronization if active, then recompute and redraw. Synchronization
// always completes before the recomputation reads any value.
func (b *Binding) Set(id string, value float64) error {
	ctrl, ok := b.controls[id]
	if !ok {
		return fmt.Errorf("binding %s: unknown parameter %q", b.family.Name, id)
	}
	ctrl.Set(value)

	if b.locked {
		b.syncPartner(id)
	}
	b.redraw()
	return nil
}

// Values returns a snapshot of the current parameter values.
func (b *Binding) Values() irt.Values {
	v := make(irt.Values, len(b.controls))
	for id, ctrl := range b.controls {
		v[id] = ctrl.Value()
	}
	return v
}

// Point returns the highlighted point from the most recent redraw.
func (b *Binding) Point() irt.Point {
	return b.last
}

// LockSupported reports whether this family offers the ability/difficulty
// lock, which requires both parameters to exist in the same set.
func (b *Binding) LockSupported() bool {
	return b.family.HasParam(irt.ParamAbility) && b.family.HasParam(irt.ParamDifficulty)
}

// Locked reports whether the ability/difficulty lock is currently enabled.
func (b *Binding) Locked() bool {
	return b.locked
}

// SetLock enables or disables the ability/difficulty coupling. Enabling
// immediately forces difficulty ← clamp(ability) and redraws.
func (b *Binding) SetLock(enabled bool) error {
	if enabled && !b.LockSupported() {
		return fmt.Errorf("binding %s: family has no ability/difficulty pair to lock", b.family.Name)
	}
	if b.locked == enabled {
		return nil
	}
	b.locked = enabled
	if enabled {
		b.syncPartner(irt.ParamAbility)
		b.redraw()
	}
	return nil
}

// PushTo replays the binding's current curve, point and reference-line
// position into another chart surface, initializing it first. Unlike the
// live redraw path this is not best-effort: snapshot surfaces report real
// I/O failures the caller needs to see.
func (b *Binding) PushTo(s Surface) error {
	if err := s.Init(b.family.Title, b.grid); err != nil {
		return fmt.Errorf("binding %s: init snapshot surface: %w", b.family.Name, err)
	}

	v := b.Values()
	if b.family.Normalize != nil {
		b.family.Normalize(v)
	}
	curve := b.family.Curve(b.grid, v)
	pt := b.family.Point(v)

	if err := s.SetTrace(TraceCurve, b.grid, curve); err != nil {
		return fmt.Errorf("binding %s: push curve: %w", b.family.Name, err)
	}
	if err := s.SetTrace(TracePoint, []float64{pt.Theta}, []float64{pt.Prob}); err != nil {
		return fmt.Errorf("binding %s: push point: %w", b.family.Name, err)
	}
	if err := s.PatchLayout(LayoutRefLine, pt.Theta); err != nil {
		return fmt.Errorf("binding %s: push reference line: %w", b.family.Name, err)
	}
	return nil
}

// syncPartner copies the fired control's value into its lock partner,
// clamped to the partner's own range. One-directional per event: whichever
// control changed pushes its value.
func (b *Binding) syncPartner(firedID string) {
	var from, to string
	switch firedID {
	case irt.ParamAbility:
		from, to = irt.ParamAbility, irt.ParamDifficulty
	case irt.ParamDifficulty:
		from, to = irt.ParamDifficulty, irt.ParamAbility
	default:
		return
	}
	source, target := b.controls[from], b.controls[to]
	if source == nil || target == nil {
		return
	}
	target.Set(source.Value())
}

// redraw gathers current values, normalizes them, evaluates curve and point,
// and pushes both plus the reference-line position to the chart. Chart push
// failures are logged and otherwise ignored; the surface is best-effort.
func (b *Binding) redraw() {
	v := b.Values()
	if b.family.Normalize != nil {
		b.family.Normalize(v)
	}

	curve := b.family.Curve(b.grid, v)
	pt := b.family.Point(v)
	b.last = pt

	if err := b.chart.SetTrace(TraceCurve, b.grid, curve); err != nil {
		b.log.Error("Chart curve update failed", "family", b.family.Name, "error", err)
	}
	if err := b.chart.SetTrace(TracePoint, []float64{pt.Theta}, []float64{pt.Prob}); err != nil {
		b.log.Error("Chart point update failed", "family", b.family.Name, "error", err)
	}
	if err := b.chart.PatchLayout(LayoutRefLine, pt.Theta); err != nil {
		b.log.Error("Chart layout patch failed", "family", b.family.Name, "error", err)
	}
}
