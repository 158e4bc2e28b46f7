package track

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/openpitwall/telemetry-compare-go/pkg/model"
)

// candidate rotations for the layout search: 0..170 degrees in 10 degree
// steps. 180+ would mirror results already covered.
const (
	angleStep = 10
	angleMax  = 180
)

// Center translates the points so their centroid sits at the origin.
func Center(x, y []float64) (cx, cy []float64) {
	cx = make([]float64, len(x))
	cy = make([]float64, len(y))
	if len(x) == 0 {
		return cx, cy
	}
	xMean := stat.Mean(x, nil)
	yMean := stat.Mean(y, nil)
	for i := range x {
		cx[i] = x[i] - xMean
		cy[i] = y[i] - yMean
	}
	return cx, cy
}

// Rotate applies the standard 2D rotation by angle (radians) around the
// origin.
func Rotate(x, y []float64, angle float64) (rx, ry []float64) {
	sin, cos := math.Sincos(angle)
	rx = make([]float64, len(x))
	ry = make([]float64, len(y))
	for i := range x {
		rx[i] = x[i]*cos - y[i]*sin
		ry[i] = x[i]*sin + y[i]*cos
	}
	return rx, ry
}

// AspectRatio returns the width/height ratio of the bounding box.
// A zero-height box yields +Inf; this is a valid degenerate state,
// not an error.
func AspectRatio(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 {
		return math.Inf(1)
	}
	width := floats.Max(x) - floats.Min(x)
	height := floats.Max(y) - floats.Min(y)
	if height == 0 {
		return math.Inf(1)
	}
	return width / height
}

// Optimize centers the outline and searches the candidate angles for the
// rotation maximizing the bounding-box aspect ratio. Ties keep the earliest
// candidate (strict improvement only), so the selected ratio is always at
// least the ratio of the unrotated layout.
func Optimize(x, y []float64) *model.OrientedTrack {
	cx, cy := Center(x, y)

	bestRatio := 0.0
	bestRotation := 0
	bestX, bestY := cx, cy

	for angleDeg := 0; angleDeg < angleMax; angleDeg += angleStep {
		rx, ry := Rotate(cx, cy, float64(angleDeg)*math.Pi/180)
		ratio := AspectRatio(rx, ry)
		if ratio > bestRatio {
			bestRatio = ratio
			bestRotation = angleDeg
			bestX, bestY = rx, ry
		}
	}

	return &model.OrientedTrack{
		X:           bestX,
		Y:           bestY,
		Rotation:    bestRotation,
		AspectRatio: bestRatio,
	}
}
