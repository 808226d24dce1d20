// Package chart provides the chart surfaces iccview renders curves onto.
// Every surface speaks the same three-operation contract the reactive
// binding expects: Init (create chart with initial traces and layout),
// SetTrace (replace trace data by index) and PatchLayout (patch one layout
// property). Trace 0 is drawn as a line, trace 1 as point markers.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// LayoutRefLineX is the only layout property the surfaces understand: the
// x position of the vertical reference line.
const LayoutRefLineX = "refline.x"

// Probability axis bounds. ICC outputs always live in [0, 1].
const (
	probMin = 0.0
	probMax = 1.0
)

// markers is the set of glyphs a terminal surface plots with.
type markers struct {
	curve   rune
	point   rune
	refLine rune
}

var (
	unicodeMarkers = markers{curve: '·', point: '●', refLine: '│'}
	asciiMarkers   = markers{curve: '.', point: 'o', refLine: '|'}
)

// Terminal is a character-cell chart surface. It keeps the latest trace data
// and renders the whole plot on demand; Render is cheap enough to call on
// every change event.
type Terminal struct {
	width  int
	height int
	theme  Theme
	marks  markers

	title string
	xMin  float64
	xMax  float64

	curveXs []float64
	curveYs []float64
	pointXs []float64
	pointYs []float64
	refX    float64

	initialized bool
}

// TerminalOption configures a Terminal surface.
type TerminalOption func(*Terminal)

// WithSize sets the plot area size in character cells.
func WithSize(width, height int) TerminalOption {
	return func(t *Terminal) {
		t.width = width
		t.height = height
	}
}

// WithTheme sets the render theme.
func WithTheme(theme Theme) TerminalOption {
	return func(t *Terminal) {
		t.theme = theme
	}
}

// WithProfile overrides terminal capability detection. Ascii profiles plot
// with plain ASCII glyphs instead of unicode.
func WithProfile(profile termenv.Profile) TerminalOption {
	return func(t *Terminal) {
		t.marks = markersForProfile(profile)
	}
}

// NewTerminal creates a terminal chart surface with the detected color
// profile and the default theme.
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{
		width:  64,
		height: 16,
		theme:  LoadTheme("default"),
		marks:  markersForProfile(termenv.ColorProfile()),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.width < 8 {
		t.width = 8
	}
	if t.height < 4 {
		t.height = 4
	}
	return t
}

func markersForProfile(profile termenv.Profile) markers {
	if profile == termenv.Ascii {
		return asciiMarkers
	}
	return unicodeMarkers
}

// Init creates the chart: an empty curve trace sized to the grid, an empty
// point marker trace, and the vertical reference line at x = 0.
func (t *Terminal) Init(title string, grid []float64) error {
	if len(grid) < 2 {
		return fmt.Errorf("terminal chart: grid needs at least 2 points, got %d", len(grid))
	}
	t.title = title
	t.xMin = grid[0]
	t.xMax = grid[len(grid)-1]
	t.curveXs = grid
	t.curveYs = make([]float64, len(grid))
	t.pointXs = nil
	t.pointYs = nil
	t.refX = 0
	t.initialized = true
	return nil
}

// SetTrace replaces the data of trace 0 (curve) or trace 1 (point marker).
func (t *Terminal) SetTrace(index int, xs, ys []float64) error {
	if !t.initialized {
		return fmt.Errorf("terminal chart: not initialized")
	}
	if len(xs) != len(ys) {
		return fmt.Errorf("terminal chart: trace %d length mismatch (%d x, %d y)", index, len(xs), len(ys))
	}
	switch index {
	case 0:
		t.curveXs = xs
		t.curveYs = ys
	case 1:
		t.pointXs = xs
		t.pointYs = ys
	default:
		return fmt.Errorf("terminal chart: no trace %d", index)
	}
	return nil
}

// PatchLayout updates a single layout property.
func (t *Terminal) PatchLayout(key string, value any) error {
	if !t.initialized {
		return fmt.Errorf("terminal chart: not initialized")
	}
	if key != LayoutRefLineX {
		return fmt.Errorf("terminal chart: unknown layout property %q", key)
	}
	x, ok := value.(float64)
	if !ok {
		return fmt.Errorf("terminal chart: layout property %q wants float64, got %T", key, value)
	}
	t.refX = x
	return nil
}

// Render draws the current chart state as a multi-line string.
func (t *Terminal) Render() string {
	if !t.initialized {
		return ""
	}

	canvas := make([][]rune, t.height)
	for row := range canvas {
		canvas[row] = []rune(strings.Repeat(" ", t.width))
	}

	// Reference line first so the curve and point draw over it.
	if col, ok := t.col(t.refX); ok {
		for row := 0; row < t.height; row++ {
			canvas[row][col] = t.marks.refLine
		}
	}
	for i := range t.curveXs {
		if col, ok := t.col(t.curveXs[i]); ok {
			if row, ok := t.row(t.curveYs[i]); ok {
				canvas[row][col] = t.marks.curve
			}
		}
	}
	for i := range t.pointXs {
		if col, ok := t.col(t.pointXs[i]); ok {
			if row, ok := t.row(t.pointYs[i]); ok {
				canvas[row][col] = t.marks.point
			}
		}
	}

	var sb strings.Builder
	t.writeTitle(&sb)
	for row := 0; row < t.height; row++ {
		sb.WriteString(t.theme.Axis.Render(t.yLabel(row)))
		t.writeRow(&sb, canvas[row])
		sb.WriteByte('\n')
	}
	t.writeXAxis(&sb)
	return sb.String()
}

func (t *Terminal) writeRow(sb *strings.Builder, cells []rune) {
	for _, r := range cells {
		switch r {
		case t.marks.point:
			sb.WriteString(t.theme.Point.Render(string(r)))
		case t.marks.curve:
			sb.WriteString(t.theme.Curve.Render(string(r)))
		case t.marks.refLine:
			sb.WriteString(t.theme.RefLine.Render(string(r)))
		default:
			sb.WriteRune(r)
		}
	}
}

func (t *Terminal) writeTitle(sb *strings.Builder) {
	title := t.theme.Title.Render(t.title)
	pad := (t.labelWidth() + t.width - ansi.StringWidth(title)) / 2
	if pad < 0 {
		pad = 0
	}
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(title)
	sb.WriteByte('\n')
}

func (t *Terminal) writeXAxis(sb *strings.Builder) {
	sb.WriteString(strings.Repeat(" ", t.labelWidth()))
	axis := strings.Repeat("─", t.width)
	if t.marks.curve == asciiMarkers.curve {
		axis = strings.Repeat("-", t.width)
	}
	sb.WriteString(t.theme.Axis.Render(axis))
	sb.WriteByte('\n')

	left := fmt.Sprintf("%g", t.xMin)
	mid := fmt.Sprintf("%g", (t.xMin+t.xMax)/2)
	right := fmt.Sprintf("%g", t.xMax)
	line := make([]rune, t.labelWidth()+t.width)
	for i := range line {
		line[i] = ' '
	}
	copyAt := func(s string, at int) {
		for i, r := range []rune(s) {
			if at+i >= 0 && at+i < len(line) {
				line[at+i] = r
			}
		}
	}
	copyAt(left, t.labelWidth())
	copyAt(mid, t.labelWidth()+t.width/2-ansi.StringWidth(mid)/2)
	copyAt(right, t.labelWidth()+t.width-ansi.StringWidth(right))
	sb.WriteString(t.theme.Label.Render(string(line)))
	sb.WriteByte('\n')
}

// yLabel returns the left-hand probability label for a canvas row.
func (t *Terminal) yLabel(row int) string {
	switch row {
	case 0:
		return "1.0 "
	case t.height / 2:
		return "0.5 "
	case t.height - 1:
		return "0.0 "
	default:
		return "    "
	}
}

func (t *Terminal) labelWidth() int {
	return len("0.0 ")
}

// col maps an ability value to a canvas column.
func (t *Terminal) col(x float64) (int, bool) {
	if x < t.xMin || x > t.xMax {
		return 0, false
	}
	frac := (x - t.xMin) / (t.xMax - t.xMin)
	return clampIndex(int(math.Round(frac*float64(t.width-1))), t.width), true
}

// row maps a probability to a canvas row (row 0 is the top, P = 1).
func (t *Terminal) row(p float64) (int, bool) {
	if p < probMin || p > probMax {
		return 0, false
	}
	frac := (p - probMin) / (probMax - probMin)
	return clampIndex(int(math.Round((1-frac)*float64(t.height-1))), t.height), true
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
