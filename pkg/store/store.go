// Package store supplies lap telemetry to the engine from JSON files on
// disk, one file per driver and lap. It stands in for the timing-data
// provider: files are expected to carry unit-converted channels (meters,
// km/h) as described in pkg/model. Missing distance channels are
// reconstructed from the GPS trace at load time.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/openpitwall/telemetry-compare-go/log"
	"github.com/openpitwall/telemetry-compare-go/pkg/model"
)

var ErrLapNotFound = errors.New("lap telemetry not found")

const defaultTTL = 5 * time.Minute

type FileStore struct {
	dir         string
	l           *log.Logger
	cache       *lapCache
	trackLength float64
}

type Option func(*FileStore)

// WithTrackLength rescales reconstructed distances so a full lap matches the
// official track length in meters. Ignored for laps that already carry a
// distance channel.
func WithTrackLength(meters float64) Option {
	return func(s *FileStore) {
		s.trackLength = meters
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(s *FileStore) {
		s.cache.ttl = ttl
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *FileStore) {
		s.l = l
	}
}

func NewFileStore(dir string, opts ...Option) *FileStore {
	ret := &FileStore{
		dir: dir,
		l:   log.Default().Named("store"),
	}
	ret.cache = newLapCache(defaultTTL, ret.loadFile, ret.l)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Lap returns the telemetry of one driver's lap, from cache or disk.
func (s *FileStore) Lap(ctx context.Context, driver string, lap int) (
	*model.DriverTelemetry, error,
) {
	return s.cache.Get(ctx, lapKey{Driver: driver, Lap: lap})
}

// Invalidate drops a cached lap, forcing a reload on next access.
func (s *FileStore) Invalidate(driver string, lap int) {
	s.cache.Invalidate(lapKey{Driver: driver, Lap: lap})
}

func (s *FileStore) lapPath(key lapKey) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%d.json", key.Driver, key.Lap))
}

func (s *FileStore) loadFile(_ context.Context, key lapKey) (
	*model.DriverTelemetry, error,
) {
	path := s.lapPath(key)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("driver %s lap %d: %w", key.Driver, key.Lap, ErrLapNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var ret model.DriverTelemetry
	if err := json.Unmarshal(content, &ret); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if ret.Name == "" {
		ret.Name = key.Driver
	}
	if ret.Lap == 0 {
		ret.Lap = key.Lap
	}

	dropInvalidSamples(&ret)
	if len(ret.Distance) == 0 && len(ret.X) > 0 {
		ret.Distance = s.reconstructDistance(ret.X, ret.Y)
	}

	s.l.Debug("lap loaded",
		log.String("driver", ret.Name),
		log.Int("lap", ret.Lap),
		log.Int("samples", len(ret.X)))
	return &ret, nil
}

// dropInvalidSamples removes samples with non-finite GPS coordinates,
// keeping all channels index-aligned.
func dropInvalidSamples(d *model.DriverTelemetry) {
	n := len(d.X)
	if len(d.Y) < n {
		n = len(d.Y)
	}
	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if isFinite(d.X[i]) && isFinite(d.Y[i]) {
			keep = append(keep, i)
		}
	}
	if len(keep) == n && len(d.X) == n && len(d.Y) == n {
		return
	}
	d.X = pick(d.X, keep)
	d.Y = pick(d.Y, keep)
	d.Speed = pick(d.Speed, keep)
	d.Throttle = pick(d.Throttle, keep)
	d.Brake = pick(d.Brake, keep)
	d.Distance = pick(d.Distance, keep)
}

func pick(src []float64, idx []int) []float64 {
	if src == nil {
		return nil
	}
	ret := make([]float64, 0, len(idx))
	for _, i := range idx {
		if i < len(src) {
			ret = append(ret, src[i])
		}
	}
	return ret
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// reconstructDistance accumulates point-to-point euclidean distances along
// the GPS trace and, when a track length is configured, rescales so the lap
// covers exactly that length.
func (s *FileStore) reconstructDistance(x, y []float64) []float64 {
	ret := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		dx := x[i] - x[i-1]
		dy := y[i] - y[i-1]
		ret[i] = ret[i-1] + math.Hypot(dx, dy)
	}
	total := ret[len(ret)-1]
	if s.trackLength > 0 && total > 0 {
		scale := s.trackLength / total
		for i := range ret {
			ret[i] *= scale
		}
	}
	return ret
}
