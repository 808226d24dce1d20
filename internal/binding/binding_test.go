package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iccview/internal/irt"
)

// fakeSurface records every chart operation so tests can observe exactly
// what the binding pushed, and when.
type fakeSurface struct {
	initTitle string
	initGrid  []float64
	initCalls int

	traces map[int]traceData
	layout map[string]any

	pushes []push

	initErr  error
	traceErr error
}

type traceData struct {
	xs []float64
	ys []float64
}

type push struct {
	index int
	xs    []float64
	ys    []float64
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		traces: make(map[int]traceData),
		layout: make(map[string]any),
	}
}

func (f *fakeSurface) Init(title string, grid []float64) error {
	if f.initErr != nil {
		return f.initErr
	}
	f.initCalls++
	f.initTitle = title
	f.initGrid = grid
	return nil
}

func (f *fakeSurface) SetTrace(index int, xs, ys []float64) error {
	if f.traceErr != nil {
		return f.traceErr
	}
	data := traceData{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
	}
	f.traces[index] = data
	f.pushes = append(f.pushes, push{index: index, xs: data.xs, ys: data.ys})
	return nil
}

func (f *fakeSurface) PatchLayout(key string, value any) error {
	f.layout[key] = value
	return nil
}

func newTestBinding(t *testing.T, name string) (*Binding, *fakeSurface) {
	t.Helper()
	family, ok := irt.FamilyByName(name)
	require.True(t, ok)

	surface := newFakeSurface()
	b, err := New(surface, family, irt.SampleGrid())
	require.NoError(t, err)
	return b, surface
}

func TestNewInitializesChartAndRedraws(t *testing.T) {
	b, surface := newTestBinding(t, "2pl")

	assert.Equal(t, 1, surface.initCalls)
	assert.Equal(t, "2PL Model", surface.initTitle)
	assert.Len(t, surface.initGrid, irt.GridSize)

	// Initial redraw pushed the default curve and point.
	curve, ok := surface.traces[TraceCurve]
	require.True(t, ok)
	assert.Len(t, curve.ys, irt.GridSize)

	point, ok := surface.traces[TracePoint]
	require.True(t, ok)
	require.Len(t, point.xs, 1)
	assert.Equal(t, 0.0, point.xs[0])
	assert.InDelta(t, 0.5, point.ys[0], 1e-12)

	assert.Equal(t, b.Point().Theta, surface.layout[LayoutRefLine])
}

func TestNewRejectsEmptyGrid(t *testing.T) {
	family, ok := irt.FamilyByName("1pl")
	require.True(t, ok)

	_, err := New(newFakeSurface(), family, nil)
	assert.Error(t, err)
}

func TestNewPropagatesInitError(t *testing.T) {
	family, ok := irt.FamilyByName("1pl")
	require.True(t, ok)

	surface := newFakeSurface()
	surface.initErr = errors.New("no terminal")

	_, err := New(surface, family, irt.SampleGrid())
	assert.ErrorContains(t, err, "init chart")
}

func TestSetRecomputesCurveAndPoint(t *testing.T) {
	b, surface := newTestBinding(t, "2pl")

	require.NoError(t, b.Set(irt.ParamDiscrimination, 2))
	require.NoError(t, b.Set(irt.ParamAbility, 1))

	pt := b.Point()
	assert.InDelta(t, 1.0, pt.Theta, 1e-9)
	assert.InDelta(t, 0.8808, pt.Prob, 1e-4)

	point := surface.traces[TracePoint]
	require.Len(t, point.ys, 1)
	assert.InDelta(t, pt.Prob, point.ys[0], 1e-12)
	assert.InDelta(t, 1.0, surface.layout[LayoutRefLine].(float64), 1e-9)
}

func TestSetUnknownParameter(t *testing.T) {
	b, _ := newTestBinding(t, "1pl")

	err := b.Set("nope", 1)
	assert.ErrorContains(t, err, `unknown parameter "nope"`)
}

func TestSetClampsToControlRange(t *testing.T) {
	b, _ := newTestBinding(t, "3pl")

	require.NoError(t, b.Set(irt.ParamGuessing, 2.5))
	assert.InDelta(t, 0.35, b.Values()[irt.ParamGuessing], 1e-9)

	require.NoError(t, b.Set(irt.ParamGuessing, -1))
	assert.InDelta(t, 0.0, b.Values()[irt.ParamGuessing], 1e-9)
}

func TestLockUnsupportedWithoutBothParameters(t *testing.T) {
	family := irt.Family{
		Name:   "point-only",
		Title:  "Point Only",
		Params: []irt.ParamSpec{{ID: irt.ParamAbility, Label: "Ability θ", Min: -4, Max: 4, Step: 0.1}},
		Curve: func(grid []float64, v irt.Values) []float64 {
			return make([]float64, len(grid))
		},
		Point: func(v irt.Values) irt.Point {
			return irt.Point{Theta: v[irt.ParamAbility]}
		},
	}

	b, err := New(newFakeSurface(), family, irt.SampleGrid())
	require.NoError(t, err)

	assert.False(t, b.LockSupported())
	assert.Error(t, b.SetLock(true))
	assert.False(t, b.Locked())
}

func TestLockEnableSyncsDifficultyFromAbility(t *testing.T) {
	b, _ := newTestBinding(t, "1pl")

	require.NoError(t, b.Set(irt.ParamAbility, 2))
	require.NoError(t, b.SetLock(true))

	v := b.Values()
	assert.InDelta(t, 2.0, v[irt.ParamDifficulty], 1e-9)

	// theta == b puts the point on the curve midpoint.
	assert.InDelta(t, 0.5, b.Point().Prob, 1e-12)
}

func TestLockCopiesFiredValueToPartner(t *testing.T) {
	b, _ := newTestBinding(t, "2pl")
	require.NoError(t, b.SetLock(true))

	require.NoError(t, b.Set(irt.ParamAbility, 1.5))
	assert.InDelta(t, 1.5, b.Values()[irt.ParamDifficulty], 1e-9)

	require.NoError(t, b.Set(irt.ParamDifficulty, -2))
	assert.InDelta(t, -2.0, b.Values()[irt.ParamAbility], 1e-9)
}

func TestLockClampsToPartnerRange(t *testing.T) {
	b, _ := newTestBinding(t, "1pl")
	require.NoError(t, b.SetLock(true))

	// Ability reaches 4 but difficulty's own range stops at 3.
	require.NoError(t, b.Set(irt.ParamAbility, 4))
	v := b.Values()
	assert.InDelta(t, 4.0, v[irt.ParamAbility], 1e-9)
	assert.InDelta(t, 3.0, v[irt.ParamDifficulty], 1e-9)
}

func TestLockSyncCompletesBeforeRecompute(t *testing.T) {
	b, surface := newTestBinding(t, "1pl")
	require.NoError(t, b.SetLock(true))
	surface.pushes = nil

	require.NoError(t, b.Set(irt.ParamAbility, 2))

	// Every push after the event must already reflect difficulty = 2:
	// the point sits exactly on the midpoint, never on a stale curve.
	var sawPoint bool
	for _, p := range surface.pushes {
		if p.index != TracePoint {
			continue
		}
		sawPoint = true
		require.Len(t, p.ys, 1)
		assert.InDelta(t, 0.5, p.ys[0], 1e-12)
	}
	assert.True(t, sawPoint)
}

func TestLockDisableStopsCoupling(t *testing.T) {
	b, _ := newTestBinding(t, "1pl")
	require.NoError(t, b.SetLock(true))
	require.NoError(t, b.SetLock(false))

	require.NoError(t, b.Set(irt.ParamAbility, 2))
	assert.InDelta(t, 0.0, b.Values()[irt.ParamDifficulty], 1e-9)
}

func TestLockIgnoresUnrelatedParameters(t *testing.T) {
	b, _ := newTestBinding(t, "2pl")
	require.NoError(t, b.SetLock(true))

	require.NoError(t, b.Set(irt.ParamDiscrimination, 2.5))
	v := b.Values()
	assert.InDelta(t, 0.0, v[irt.ParamAbility], 1e-9)
	assert.InDelta(t, 0.0, v[irt.ParamDifficulty], 1e-9)
}

func TestFourPLUpperAsymptoteClampedForEvaluation(t *testing.T) {
	b, surface := newTestBinding(t, "4pl")

	require.NoError(t, b.Set(irt.ParamGuessing, 0.3))
	require.NoError(t, b.Set(irt.ParamUpper, 0.25))

	// The control keeps the raw value; only the evaluation sees the repair.
	assert.InDelta(t, 0.25, b.Values()[irt.ParamUpper], 1e-9)

	curve := surface.traces[TraceCurve]
	require.Len(t, curve.ys, irt.GridSize)
	for i, p := range curve.ys {
		assert.GreaterOrEqual(t, p, 0.3, "curve sample %d below guessing floor", i)
		assert.LessOrEqual(t, p, 0.3+irt.UpperAsymptoteEpsilon, "curve sample %d above effective upper asymptote", i)
	}
}

func TestChartErrorsAreBestEffort(t *testing.T) {
	b, surface := newTestBinding(t, "1pl")
	surface.traceErr = errors.New("surface gone")

	// Redraw failures must not surface to the caller.
	assert.NoError(t, b.Set(irt.ParamAbility, 1))
	assert.InDelta(t, 1.0, b.Point().Theta, 1e-9)
}

func TestPushToReplaysCurrentState(t *testing.T) {
	b, _ := newTestBinding(t, "2pl")
	require.NoError(t, b.Set(irt.ParamDiscrimination, 2))
	require.NoError(t, b.Set(irt.ParamAbility, 1))

	snapshot := newFakeSurface()
	require.NoError(t, b.PushTo(snapshot))

	assert.Equal(t, "2PL Model", snapshot.initTitle)
	point := snapshot.traces[TracePoint]
	require.Len(t, point.ys, 1)
	assert.InDelta(t, 0.8808, point.ys[0], 1e-4)
	assert.InDelta(t, 1.0, snapshot.layout[LayoutRefLine].(float64), 1e-9)
}

func TestPushToPropagatesSurfaceErrors(t *testing.T) {
	b, _ := newTestBinding(t, "1pl")

	snapshot := newFakeSurface()
	snapshot.traceErr = errors.New("disk full")
	assert.ErrorContains(t, b.PushTo(snapshot), "push curve")

	snapshot.initErr = errors.New("bad surface")
	assert.ErrorContains(t, b.PushTo(snapshot), "init snapshot surface")
}

func TestBindingsShareGridInstance(t *testing.T) {
	b1, s1 := newTestBinding(t, "1pl")
	b2, s2 := newTestBinding(t, "4pl")

	require.NotEmpty(t, s1.initGrid)
	assert.Same(t, &s1.initGrid[0], &s2.initGrid[0])

	// Independent parameter state per binding.
	require.NoError(t, b1.Set(irt.ParamDifficulty, 1))
	assert.InDelta(t, 0.0, b2.Values()[irt.ParamDifficulty], 1e-9)
}
