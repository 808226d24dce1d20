package irt

import "sync"

const (
	// GridSize is the number of ability samples on the shared grid.
	GridSize = 400

	// GridMin and GridMax bound the ability axis.
	GridMin = -4.0
	GridMax = 4.0
)

var (
	gridOnce   sync.Once
	sharedGrid []float64
)

// SampleGrid returns the shared ability sample grid: GridSize values evenly
// spaced over [GridMin, GridMax] inclusive. The grid is built once per
// process and the same backing slice is handed to every caller, so callers
// must treat it as read-only.
func SampleGrid() []float64 {
	gridOnce.Do(func() {
		sharedGrid = make([]float64, GridSize)
		step := (GridMax - GridMin) / float64(GridSize-1)
		for i := range sharedGrid {
			sharedGrid[i] = GridMin + float64(i)*step
		}
		// Land exactly on the upper bound regardless of rounding.
		sharedGrid[GridSize-1] = GridMax
	})
	return sharedGrid
}
