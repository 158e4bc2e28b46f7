package model

// DriverTelemetry holds one driver's lap telemetry sampled along distance.
// All channel slices are index-aligned; Distance is non-decreasing and in
// meters, Speed in km/h, Throttle/Brake in percent (0-100).
// The engine treats these slices as read-only input.
type DriverTelemetry struct {
	Name     string    `json:"name"`
	Lap      int       `json:"lap"`
	Distance []float64 `json:"distance"`
	X        []float64 `json:"x"`
	Y        []float64 `json:"y"`
	Speed    []float64 `json:"speed"`
	Throttle []float64 `json:"throttle"`
	Brake    []float64 `json:"brake"`
}

// OrientedTrack is a track outline centered at the origin and rotated to the
// orientation with the best (widest) bounding-box aspect ratio.
type OrientedTrack struct {
	X           []float64 `json:"x"`
	Y           []float64 `json:"y"`
	Rotation    int       `json:"rotation"`    // degrees, one of 0,10,...,170
	AspectRatio float64   `json:"aspectRatio"` // width/height, +Inf if height is 0
}

// SynchronizedTelemetry is one driver's telemetry resampled onto the shared
// checkpoint axis. All drivers of one comparison carry identical Distance,
// X and Y slices; only the channel values differ.
type SynchronizedTelemetry struct {
	Distance []float64 `json:"distance"`
	X        []float64 `json:"x"`
	Y        []float64 `json:"y"`
	Speed    []float64 `json:"speed"`
	Throttle []float64 `json:"throttle"`
	Brake    []float64 `json:"brake"`
}
