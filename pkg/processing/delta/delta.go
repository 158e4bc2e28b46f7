// Package delta estimates the running time difference between two drivers
// from their synchronized speed profiles.
//
// This is a numerical approximation: each checkpoint interval is traversed at
// the driver's local speed at the interval start, not reconstructed from true
// per-sample timestamps. On segments with large speed variance inside an
// interval it diverges from an authoritative lap-time delta. Downstream
// consumers rely on this specific behavior, so it stays as is.
package delta

import (
	"gonum.org/v1/gonum/floats"

	"github.com/openpitwall/telemetry-compare-go/pkg/model"
)

const (
	kmhToMs = 3.6
	// guards the division when a driver is stationary
	epsilon = 1e-6
)

// Series returns the cumulative time difference in seconds between the two
// drivers at every checkpoint. Index 0 is always 0; a positive value means
// the first driver is behind.
func Series(t1, t2 *model.SynchronizedTelemetry) []float64 {
	distance := t1.Distance
	n := len(distance)
	ret := make([]float64, n)
	if n < 2 {
		return ret
	}

	diffs := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dd := distance[i+1] - distance[i]
		time1 := dd / (t1.Speed[i]/kmhToMs + epsilon)
		time2 := dd / (t2.Speed[i]/kmhToMs + epsilon)
		diffs[i] = time1 - time2
	}
	floats.CumSum(ret[1:], diffs)
	return ret
}
