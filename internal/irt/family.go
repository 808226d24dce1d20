package irt

// Canonical parameter identifiers shared by the model families.
const (
	ParamAbility        = "theta"
	ParamDiscrimination = "a"
	ParamDifficulty     = "b"
	ParamGuessing       = "c"
	ParamUpper          = "d"
)

// UpperAsymptoteEpsilon keeps the 4PL upper asymptote strictly above the
// guessing floor when the two sliders cross.
const UpperAsymptoteEpsilon = 1e-6

// ParamSpec describes a single adjustable model parameter: its identity,
// human-facing label, allowed range, slider step and default value.
type ParamSpec struct {
	ID      string
	Label   string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// Values maps parameter identifiers to their current numeric values.
type Values map[string]float64

// Point is a single highlighted (theta, P(theta)) pair on a curve.
type Point struct {
	Theta float64
	Prob  float64
}

// Family is the strategy record for one IRT model family. It bundles the
// parameter specs with the callbacks the reactive binding uses to compute
// the sampled curve and the highlighted point, plus an optional Normalize
// hook applied to the value map before any evaluation.
type Family struct {
	Name    string
	Title   string
	Formula string
	Params  []ParamSpec

	// Curve evaluates the ICC at every grid value with the given parameters.
	Curve func(grid []float64, v Values) []float64

	// Point evaluates the ICC at the currently selected ability.
	Point func(v Values) Point

	// Normalize, if non-nil, repairs cross-parameter invariants in place
	// (the 4PL d >= c constraint) before Curve or Point run.
	Normalize func(v Values)
}

// HasParam reports whether the family declares the given parameter.
func (f Family) HasParam(id string) bool {
	for _, p := range f.Params {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Spec returns the parameter spec with the given identifier.
func (f Family) Spec(id string) (ParamSpec, bool) {
	for _, p := range f.Params {
		if p.ID == id {
			return p, true
		}
	}
	return ParamSpec{}, false
}

var (
	abilitySpec        = ParamSpec{ID: ParamAbility, Label: "Ability θ", Min: GridMin, Max: GridMax, Step: 0.1, Default: 0}
	discriminationSpec = ParamSpec{ID: ParamDiscrimination, Label: "Discrimination a", Min: 0.1, Max: 3, Step: 0.1, Default: 1}
	difficultySpec     = ParamSpec{ID: ParamDifficulty, Label: "Difficulty b", Min: -3, Max: 3, Step: 0.1, Default: 0}
	guessingSpec       = ParamSpec{ID: ParamGuessing, Label: "Guessing c", Min: 0, Max: 0.35, Step: 0.01, Default: 0.2}
	upperSpec          = ParamSpec{ID: ParamUpper, Label: "Upper asymptote d", Min: 0.65, Max: 1, Step: 0.01, Default: 0.9}
)

// Families returns the four model families in nesting order
// (1PL ⊂ 2PL ⊂ 3PL ⊂ 4PL).
func Families() []Family {
	return []Family{
		{
			Name:    "1pl",
			Title:   "1PL (Rasch) Model",
			Formula: "P(θ) = 1 / (1 + e^−(θ − b))",
			Params:  []ParamSpec{abilitySpec, difficultySpec},
			Curve: func(grid []float64, v Values) []float64 {
				return sampleCurve(grid, func(theta float64) float64 {
					return ICC1PL(theta, v[ParamDifficulty])
				})
			},
			Point: func(v Values) Point {
				theta := v[ParamAbility]
				return Point{Theta: theta, Prob: ICC1PL(theta, v[ParamDifficulty])}
			},
		},
		{
			Name:    "2pl",
			Title:   "2PL Model",
			Formula: "P(θ) = 1 / (1 + e^−a(θ − b))",
			Params:  []ParamSpec{abilitySpec, discriminationSpec, difficultySpec},
			Curve: func(grid []float64, v Values) []float64 {
				return sampleCurve(grid, func(theta float64) float64 {
					return ICC2PL(theta, v[ParamDiscrimination], v[ParamDifficulty])
				})
			},
			Point: func(v Values) Point {
				theta := v[ParamAbility]
				return Point{Theta: theta, Prob: ICC2PL(theta, v[ParamDiscrimination], v[ParamDifficulty])}
			},
		},
		{
			Name:    "3pl",
			Title:   "3PL Model",
			Formula: "P(θ) = c + (1 − c) / (1 + e^−a(θ − b))",
			Params:  []ParamSpec{abilitySpec, discriminationSpec, difficultySpec, guessingSpec},
			Curve: func(grid []float64, v Values) []float64 {
				return sampleCurve(grid, func(theta float64) float64 {
					return ICC3PL(theta, v[ParamDiscrimination], v[ParamDifficulty], v[ParamGuessing])
				})
			},
			Point: func(v Values) Point {
				theta := v[ParamAbility]
				return Point{Theta: theta, Prob: ICC3PL(theta, v[ParamDiscrimination], v[ParamDifficulty], v[ParamGuessing])}
			},
		},
		{
			Name:    "4pl",
			Title:   "4PL Model",
			Formula: "P(θ) = c + (d − c) / (1 + e^−a(θ − b))",
			Params:  []ParamSpec{abilitySpec, discriminationSpec, difficultySpec, guessingSpec, upperSpec},
			Curve: func(grid []float64, v Values) []float64 {
				return sampleCurve(grid, func(theta float64) float64 {
					return ICC4PL(theta, v[ParamDiscrimination], v[ParamDifficulty], v[ParamGuessing], v[ParamUpper])
				})
			},
			Point: func(v Values) Point {
				theta := v[ParamAbility]
				return Point{Theta: theta, Prob: ICC4PL(theta, v[ParamDiscrimination], v[ParamDifficulty], v[ParamGuessing], v[ParamUpper])}
			},
			Normalize: func(v Values) {
				// d := max(d, c+ε), so d == c is repaired as well.
				if v[ParamUpper] < v[ParamGuessing]+UpperAsymptoteEpsilon {
					v[ParamUpper] = v[ParamGuessing] + UpperAsymptoteEpsilon
				}
			},
		},
	}
}

// FamilyByName looks up a family by its short name ("1pl" .. "4pl").
func FamilyByName(name string) (Family, bool) {
	for _, f := range Families() {
		if f.Name == name {
			return f, true
		}
	}
	return Family{}, false
}

func sampleCurve(grid []float64, icc func(theta float64) float64) []float64 {
	out := make([]float64, len(grid))
	for i, theta := range grid {
		out[i] = icc(theta)
	}
	return out
}
