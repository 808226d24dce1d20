package binding

import (
	"math"

	"iccview/internal/irt"
)

// Control is a single labeled range control for one model parameter. It owns
// the parameter's current value and enforces the spec's range and step on
// every write, the way an HTML range input would.
type Control struct {
	Spec  irt.ParamSpec
	value float64
}

// NewControl creates a control initialized to the spec's default value.
func NewControl(spec irt.ParamSpec) *Control {
	c := &Control{Spec: spec}
	c.Set(spec.Default)
	return c
}

// Set stores a new value, clamped to [Min, Max] and snapped to the nearest
// step position.
func (c *Control) Set(value float64) {
	c.value = c.Clamp(value)
}

// Value returns the control's current value.
func (c *Control) Value() float64 {
	return c.value
}

// Clamp maps an arbitrary value onto the control's admissible values without
// storing it: clamp into [Min, Max], then snap to the step grid.
func (c *Control) Clamp(value float64) float64 {
	v := math.Max(c.Spec.Min, math.Min(c.Spec.Max, value))
	if c.Spec.Step > 0 {
		steps := math.Round((v - c.Spec.Min) / c.Spec.Step)
		v = c.Spec.Min + steps*c.Spec.Step
		// Snapping can overshoot the top of the range by one step.
		v = math.Min(v, c.Spec.Max)
	}
	return v
}
