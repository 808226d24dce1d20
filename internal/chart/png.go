package chart

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
	"golang.org/x/image/font/basicfont"
)

// PNG is a raster chart surface for saving curve snapshots. It accepts the
// same trace pushes as the terminal surface and renders them to an image
// file on Save.
type PNG struct {
	width  int
	height int

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

// NewPNG creates a PNG chart surface with the given pixel dimensions.
func NewPNG(width, height int) *PNG {
	if width < 100 {
		width = 100
	}
	if height < 80 {
		height = 80
	}
	return &PNG{width: width, height: height}
}

// Init creates the chart: empty curve and point traces and the reference
// line at x = 0.
func (p *PNG) Init(title string, grid []float64) error {
	if len(grid) < 2 {
		return fmt.Errorf("png chart: grid needs at least 2 points, got %d", len(grid))
	}
	p.title = title
	p.xMin = grid[0]
	p.xMax = grid[len(grid)-1]
	p.curveXs = grid
	p.curveYs = make([]float64, len(grid))
	p.pointXs = nil
	p.pointYs = nil
	p.refX = 0
	p.initialized = true
	return nil
}

// SetTrace replaces the data of trace 0 (curve) or trace 1 (point marker).
func (p *PNG) SetTrace(index int, xs, ys []float64) error {
	if !p.initialized {
		return fmt.Errorf("png chart: not initialized")
	}
	if len(xs) != len(ys) {
		return fmt.Errorf("png chart: trace %d length mismatch (%d x, %d y)", index, len(xs), len(ys))
	}
	switch index {
	case 0:
		p.curveXs = xs
		p.curveYs = ys
	case 1:
		p.pointXs = xs
		p.pointYs = ys
	default:
		return fmt.Errorf("png chart: no trace %d", index)
	}
	return nil
}

// PatchLayout updates a single layout property.
func (p *PNG) PatchLayout(key string, value any) error {
	if !p.initialized {
		return fmt.Errorf("png chart: not initialized")
	}
	if key != LayoutRefLineX {
		return fmt.Errorf("png chart: unknown layout property %q", key)
	}
	x, ok := value.(float64)
	if !ok {
		return fmt.Errorf("png chart: layout property %q wants float64, got %T", key, value)
	}
	p.refX = x
	return nil
}

// Plot area margins in pixels.
const (
	marginLeft   = 40.0
	marginRight  = 15.0
	marginTop    = 30.0
	marginBottom = 30.0
)

// Save renders the current chart state and writes it as a PNG file.
func (p *PNG) Save(path string) error {
	if !p.initialized {
		return fmt.Errorf("png chart: not initialized")
	}

	dc := gg.NewContext(p.width, p.height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Frame and axis labels.
	dc.SetRGB(0.4, 0.4, 0.4)
	dc.SetLineWidth(1)
	dc.DrawRectangle(marginLeft, marginTop, p.plotWidth(), p.plotHeight())
	dc.Stroke()
	dc.DrawStringAnchored(p.title, float64(p.width)/2, marginTop/2, 0.5, 0.3)
	dc.DrawStringAnchored("1.0", marginLeft-5, marginTop, 1, 0.3)
	dc.DrawStringAnchored("0.0", marginLeft-5, marginTop+p.plotHeight(), 1, 0.3)
	dc.DrawStringAnchored(fmt.Sprintf("%g", p.xMin), marginLeft, float64(p.height)-marginBottom/2, 0.5, 0.3)
	dc.DrawStringAnchored(fmt.Sprintf("%g", p.xMax), marginLeft+p.plotWidth(), float64(p.height)-marginBottom/2, 0.5, 0.3)

	// Reference line under the curve.
	dc.SetRGB(0.7, 0.7, 0.7)
	dc.SetDash(4, 4)
	rx := p.px(p.refX)
	dc.DrawLine(rx, marginTop, rx, marginTop+p.plotHeight())
	dc.Stroke()
	dc.SetDash()

	// Curve.
	dc.SetRGB(0.1, 0.5, 0.55)
	dc.SetLineWidth(2)
	for i := range p.curveXs {
		dc.LineTo(p.px(p.curveXs[i]), p.py(p.curveYs[i]))
	}
	dc.Stroke()

	// Highlighted point on top.
	dc.SetRGB(0.85, 0.25, 0.55)
	for i := range p.pointXs {
		dc.DrawCircle(p.px(p.pointXs[i]), p.py(p.pointYs[i]), 4)
		dc.Fill()
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("png chart: save %s: %w", path, err)
	}
	return nil
}

// SnapshotName returns a fresh default file name for a saved snapshot.
func SnapshotName(family string) string {
	return fmt.Sprintf("icc-%s-%s.png", family, uuid.NewString()[:8])
}

func (p *PNG) plotWidth() float64 {
	return float64(p.width) - marginLeft - marginRight
}

func (p *PNG) plotHeight() float64 {
	return float64(p.height) - marginTop - marginBottom
}

// px maps an ability value to an x pixel coordinate.
func (p *PNG) px(x float64) float64 {
	frac := (x - p.xMin) / (p.xMax - p.xMin)
	return marginLeft + frac*p.plotWidth()
}

// py maps a probability to a y pixel coordinate (probability 1 at the top).
func (p *PNG) py(prob float64) float64 {
	return marginTop + (1-prob)*p.plotHeight()
}
