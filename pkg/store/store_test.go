package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpitwall/telemetry-compare-go/pkg/model"
)

func writeLap(t *testing.T, dir string, driver string, lap int, d *model.DriverTelemetry) {
	t.Helper()
	content, err := json.Marshal(d)
	require.NoError(t, err)
	path := filepath.Join(dir, fmt.Sprintf("%s_%d.json", driver, lap))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func TestLap_LoadsAndFillsIdentity(t *testing.T) {
	dir := t.TempDir()
	writeLap(t, dir, "VER", 1, &model.DriverTelemetry{
		Distance: []float64{0, 10},
		X:        []float64{0, 10},
		Y:        []float64{0, 0},
		Speed:    []float64{100, 120},
	})
	s := NewFileStore(dir)

	got, err := s.Lap(context.Background(), "VER", 1)
	require.NoError(t, err)
	// name/lap filled from the file key when the file omits them
	assert.Equal(t, "VER", got.Name)
	assert.Equal(t, 1, got.Lap)
	assert.Equal(t, []float64{0, 10}, got.Distance)
}

func TestLap_NotFound(t *testing.T) {
	s := NewFileStore(t.TempDir())
	_, err := s.Lap(context.Background(), "XXX", 1)
	assert.ErrorIs(t, err, ErrLapNotFound)
}

func TestLap_BadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VER_1.json"), []byte("{"), 0o644))
	s := NewFileStore(dir)
	_, err := s.Lap(context.Background(), "VER", 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrLapNotFound)
}

func TestLap_ReconstructsDistance(t *testing.T) {
	dir := t.TempDir()
	// 3-4-5 triangle legs: distances 0, 5, 10
	writeLap(t, dir, "LEC", 1, &model.DriverTelemetry{
		X:     []float64{0, 3, 6},
		Y:     []float64{0, 4, 8},
		Speed: []float64{100, 100, 100},
	})
	s := NewFileStore(dir)

	got, err := s.Lap(context.Background(), "LEC", 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 5, 10}, got.Distance, 1e-9)
}

func TestLap_RescalesToTrackLength(t *testing.T) {
	dir := t.TempDir()
	writeLap(t, dir, "LEC", 1, &model.DriverTelemetry{
		X:     []float64{0, 3, 6},
		Y:     []float64{0, 4, 8},
		Speed: []float64{100, 100, 100},
	})
	s := NewFileStore(dir, WithTrackLength(100))

	got, err := s.Lap(context.Background(), "LEC", 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 50, 100}, got.Distance, 1e-9)
}

func TestLap_CachesUntilInvalidated(t *testing.T) {
	dir := t.TempDir()
	writeLap(t, dir, "VER", 1, &model.DriverTelemetry{
		Distance: []float64{0, 10},
		X:        []float64{0, 1},
		Y:        []float64{0, 1},
		Speed:    []float64{100, 100},
	})
	s := NewFileStore(dir, WithTTL(time.Hour))

	first, err := s.Lap(context.Background(), "VER", 1)
	require.NoError(t, err)

	// deleting the file does not affect the cached entry
	require.NoError(t, os.Remove(filepath.Join(dir, "VER_1.json")))
	second, err := s.Lap(context.Background(), "VER", 1)
	require.NoError(t, err)
	assert.Same(t, first, second)

	s.Invalidate("VER", 1)
	_, err = s.Lap(context.Background(), "VER", 1)
	assert.ErrorIs(t, err, ErrLapNotFound)
}

func TestDropInvalidSamples(t *testing.T) {
	nan := math.NaN()
	d := &model.DriverTelemetry{
		Distance: []float64{0, 5, 10},
		X:        []float64{0, nan, 2},
		Y:        []float64{0, 1, 2},
		Speed:    []float64{100, 110, 120},
	}
	dropInvalidSamples(d)
	assert.Equal(t, []float64{0, 2}, d.X)
	assert.Equal(t, []float64{0, 2}, d.Y)
	assert.Equal(t, []float64{100, 120}, d.Speed)
	assert.Equal(t, []float64{0, 10}, d.Distance)
}
