package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"iccview/internal/irt"
)

func TestControlDefaultsAndClamping(t *testing.T) {
	spec := irt.ParamSpec{ID: "b", Label: "Difficulty b", Min: -3, Max: 3, Step: 0.1, Default: 0.5}

	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{name: "in range", input: 1.2, want: 1.2},
		{name: "above max", input: 7, want: 3},
		{name: "below min", input: -12, want: -3},
		{name: "snaps to step", input: 1.234, want: 1.2},
		{name: "snaps up to step", input: 1.27, want: 1.3},
		{name: "exact max", input: 3, want: 3},
	}

	ctrl := NewControl(spec)
	assert.InDelta(t, 0.5, ctrl.Value(), 1e-9)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl.Set(tt.input)
			assert.InDelta(t, tt.want, ctrl.Value(), 1e-9)
		})
	}
}

func TestControlClampDoesNotStore(t *testing.T) {
	ctrl := NewControl(irt.ParamSpec{ID: "c", Min: 0, Max: 0.35, Step: 0.01, Default: 0.2})

	assert.InDelta(t, 0.35, ctrl.Clamp(9), 1e-9)
	assert.InDelta(t, 0.2, ctrl.Value(), 1e-9)
}

func TestControlZeroStepSkipsSnapping(t *testing.T) {
	ctrl := NewControl(irt.ParamSpec{ID: "x", Min: 0, Max: 1})

	ctrl.Set(0.123456)
	assert.InDelta(t, 0.123456, ctrl.Value(), 1e-12)
}
