package resample

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/openpitwall/telemetry-compare-go/pkg/model"
)

// DefaultCheckpoints is the number of equally spaced distance checkpoints
// the drivers are aligned on.
const DefaultCheckpoints = 1000

// Axis builds numPoints equally spaced checkpoints over [0, maxDistance].
func Axis(maxDistance float64, numPoints int) []float64 {
	dst := make([]float64, numPoints)
	return floats.Span(dst, 0, maxDistance)
}

// Interp evaluates the piecewise-linear function defined by (xs, ys) at every
// query point. Queries outside [xs[0], xs[len-1]] hold the boundary value;
// there is no extrapolation beyond the recorded value range. Duplicate xs
// entries are tolerated (an exact hit takes the left-most matching sample),
// since real lap data carries repeated distance samples.
func Interp(queries, xs, ys []float64) []float64 {
	out := make([]float64, len(queries))
	if len(xs) == 0 {
		return out
	}
	for i, q := range queries {
		out[i] = interpOne(q, xs, ys)
	}
	return out
}

func interpOne(q float64, xs, ys []float64) float64 {
	last := len(xs) - 1
	if q <= xs[0] {
		return ys[0]
	}
	if q >= xs[last] {
		return ys[last]
	}
	// first index with xs[idx] >= q; idx >= 1 here
	idx := sort.SearchFloat64s(xs, q)
	if xs[idx] == q {
		return ys[idx]
	}
	x0, x1 := xs[idx-1], xs[idx]
	y0, y1 := ys[idx-1], ys[idx]
	if x1 == x0 {
		return y1
	}
	return y0 + (y1-y0)*(q-x0)/(x1-x0)
}

// Synchronize resamples every driver onto one shared checkpoint axis spanning
// [0, max(last distance of each driver)]. The oriented reference outline is
// resampled onto the same axis (against the first driver's distance, the
// reference driver the outline was derived from) and pinned onto every
// result: all returned records share the identical Distance, X and Y slices
// of length numPoints; only the channel values differ per driver.
func Synchronize(
	drivers []*model.DriverTelemetry,
	reference *model.OrientedTrack,
	numPoints int,
) []*model.SynchronizedTelemetry {
	if numPoints <= 0 {
		numPoints = DefaultCheckpoints
	}
	maxDistance := 0.0
	for _, d := range drivers {
		if last := d.Distance[len(d.Distance)-1]; last > maxDistance {
			maxDistance = last
		}
	}
	axis := Axis(maxDistance, numPoints)

	refDistance := drivers[0].Distance
	sharedX := Interp(axis, refDistance, reference.X)
	sharedY := Interp(axis, refDistance, reference.Y)

	ret := make([]*model.SynchronizedTelemetry, len(drivers))
	for i, d := range drivers {
		ret[i] = &model.SynchronizedTelemetry{
			Distance: axis,
			X:        sharedX,
			Y:        sharedY,
			Speed:    Interp(axis, d.Distance, d.Speed),
			Throttle: Interp(axis, d.Distance, d.Throttle),
			Brake:    Interp(axis, d.Distance, d.Brake),
		}
	}
	return ret
}
