package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpitwall/telemetry-compare-go/pkg/model"
)

// synthetic lap on a 10x100 rectangle, sampled every 10m
func sampleLap(name string, lap int, speed float64) *model.DriverTelemetry {
	n := 21
	d := &model.DriverTelemetry{
		Name:     name,
		Lap:      lap,
		Distance: make([]float64, n),
		X:        make([]float64, n),
		Y:        make([]float64, n),
		Speed:    make([]float64, n),
		Throttle: make([]float64, n),
		Brake:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		d.Distance[i] = float64(i) * 10
		d.X[i] = float64(i % 2 * 10)
		d.Y[i] = float64(i * 5)
		d.Speed[i] = speed
		d.Throttle[i] = 100
	}
	return d
}

func TestCompare_FullPipeline(t *testing.T) {
	s := NewCompareService(WithCheckpoints(100), WithMicrosectors(10))
	d1 := sampleLap("VER", 12, 200)
	d2 := sampleLap("LEC", 14, 180)

	res, err := s.Compare(context.Background(), d1, d2, "#A259F7", "#00B4D8")
	require.NoError(t, err)

	// circuit outline and colors cover every checkpoint
	assert.Len(t, res.Delta, 100)
	assert.Len(t, res.Circuit.Colors, 100)
	assert.Len(t, res.Pilot1.Distance, 100)

	// both pilots pinned to the shared circuit outline
	assert.Equal(t, res.Circuit.X, res.Pilot1.X)
	assert.Equal(t, res.Circuit.X, res.Pilot2.X)
	assert.Equal(t, res.Pilot1.Distance, res.Pilot2.Distance)

	// delta starts at zero and favors the faster first driver
	assert.Equal(t, 0.0, res.Delta[0])
	assert.Negative(t, res.Delta[len(res.Delta)-1])

	// VER is faster everywhere: every microsector is his
	for _, c := range res.Circuit.Colors {
		assert.Equal(t, "#A259F7", c)
	}

	assert.Equal(t, "VER", res.Pilot1.Name)
	assert.Equal(t, 12, res.Pilot1.Lap)
	assert.Equal(t, "#00B4D8", res.Pilot2.Color)

	// layout metadata from the orientation search
	assert.GreaterOrEqual(t, res.Metadata.Rotation, 0)
	assert.Less(t, res.Metadata.Rotation, 180)
	assert.Positive(t, res.Metadata.AspectRatio)
}

func TestCompare_CheckpointOnSampleReproducesValue(t *testing.T) {
	// 21 checkpoints over [0,200] land exactly on the 10m sample grid,
	// so resampling must reproduce the original channel values
	s := NewCompareService(WithCheckpoints(21))
	d1 := sampleLap("HAM", 1, 150)
	d2 := sampleLap("RUS", 1, 150)
	for i := range d1.Speed {
		d1.Speed[i] = 100 + float64(i)
	}

	res, err := s.Compare(context.Background(), d1, d2, "red", "blue")
	require.NoError(t, err)

	for i := range d1.Speed {
		assert.InDelta(t, d1.Speed[i], res.Pilot1.Speed[i], 1e-6)
	}
}

func TestCompare_MissingChannel(t *testing.T) {
	s := NewCompareService()
	d1 := sampleLap("VER", 1, 200)
	d2 := sampleLap("LEC", 1, 180)
	d2.Speed = nil

	_, err := s.Compare(context.Background(), d1, d2, "a", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingChannel)
	assert.Contains(t, err.Error(), "LEC")
}

func TestCompare_EmptyData(t *testing.T) {
	s := NewCompareService()
	d1 := sampleLap("VER", 1, 200)
	d2 := &model.DriverTelemetry{
		Name:     "NOR",
		Distance: []float64{},
		X:        []float64{},
		Y:        []float64{},
		Speed:    []float64{},
		Throttle: []float64{},
		Brake:    []float64{},
	}

	_, err := s.Compare(context.Background(), d1, d2, "a", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "NOR")
}

func TestCompare_NilPedalChannelsRejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *model.DriverTelemetry)
	}{
		{"throttle", func(d *model.DriverTelemetry) { d.Throttle = nil }},
		{"brake", func(d *model.DriverTelemetry) { d.Brake = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCompareService()
			d1 := sampleLap("VER", 1, 200)
			d2 := sampleLap("LEC", 1, 180)
			tt.mutate(d1)

			_, err := s.Compare(context.Background(), d1, d2, "a", "b")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingChannel)
			assert.Contains(t, err.Error(), "VER")
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestCompare_MisalignedChannelRejected(t *testing.T) {
	s := NewCompareService()
	d1 := sampleLap("VER", 1, 200)
	d2 := sampleLap("LEC", 1, 180)
	d2.Speed = d2.Speed[:5]

	_, err := s.Compare(context.Background(), d1, d2, "a", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "LEC")
	assert.Contains(t, err.Error(), "speed")
}

func TestCircuitDomination(t *testing.T) {
	s := NewCompareService(WithMicrosectors(7))
	drivers := []*model.DriverTelemetry{
		sampleLap("VER", 1, 200),
		sampleLap("LEC", 1, 210),
		sampleLap("HAM", 1, 190),
	}
	colors := []string{"#A259F7", "#00B4D8", "#43FF64"}

	res, err := s.CircuitDomination(context.Background(), drivers, colors)
	require.NoError(t, err)

	// outline from the reference driver, one color per segment
	numPoints := len(res.X)
	assert.Equal(t, numPoints, len(res.Y))
	assert.Len(t, res.Colors, numPoints-1)

	// LEC is fastest everywhere
	for _, c := range res.Colors {
		assert.Equal(t, "#00B4D8", c)
	}

	require.Len(t, res.Drivers, 3)
	assert.Equal(t, model.DominationEntry{Driver: "VER", Color: "#A259F7"}, res.Drivers[0])
	assert.Equal(t, model.DominationEntry{Driver: "LEC", Color: "#00B4D8"}, res.Drivers[1])
}

func TestCircuitDomination_PedalChannelsOptional(t *testing.T) {
	// lap files without pedal data are fine for domination, which only
	// reads position and speed
	s := NewCompareService()
	drivers := []*model.DriverTelemetry{
		sampleLap("VER", 1, 200),
		sampleLap("LEC", 1, 210),
	}
	drivers[0].Throttle = nil
	drivers[1].Brake = nil

	res, err := s.CircuitDomination(context.Background(),
		drivers, []string{"red", "blue"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Colors)
}

func TestCircuitDomination_Validation(t *testing.T) {
	s := NewCompareService()

	_, err := s.CircuitDomination(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoDrivers)

	drivers := []*model.DriverTelemetry{sampleLap("VER", 1, 200)}
	_, err = s.CircuitDomination(context.Background(), drivers, nil)
	assert.ErrorIs(t, err, ErrColorMapping)

	drivers[0].X = nil
	_, err = s.CircuitDomination(context.Background(), drivers, []string{"red"})
	assert.ErrorIs(t, err, ErrMissingChannel)
}

func TestCompare_DegenerateGeometryStillSucceeds(t *testing.T) {
	// collinear outline: aspect ratio +Inf, but no error
	s := NewCompareService(WithCheckpoints(10))
	d1 := sampleLap("VER", 1, 100)
	d2 := sampleLap("LEC", 1, 100)
	for i := range d1.Y {
		d1.Y[i] = 0
	}

	res, err := s.Compare(context.Background(), d1, d2, "a", "b")
	require.NoError(t, err)
	assert.True(t, math.IsInf(res.Metadata.AspectRatio, 1))
}
