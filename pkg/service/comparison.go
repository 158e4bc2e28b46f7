// Package service composes the processing stages into the two request-facing
// operations: the two-driver comparison and the N-driver circuit domination.
package service

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/openpitwall/telemetry-compare-go/log"
	"github.com/openpitwall/telemetry-compare-go/pkg/model"
	"github.com/openpitwall/telemetry-compare-go/pkg/processing/delta"
	"github.com/openpitwall/telemetry-compare-go/pkg/processing/dominance"
	"github.com/openpitwall/telemetry-compare-go/pkg/processing/resample"
	"github.com/openpitwall/telemetry-compare-go/pkg/processing/track"
)

const scopeName = "github.com/openpitwall/telemetry-compare-go/pkg/service"

type CompareService struct {
	l           *log.Logger
	checkpoints int
	sectors     int
	tracer      trace.Tracer
	requests    metric.Int64Counter
}

type Option func(*CompareService)

// WithCheckpoints overrides the number of shared distance checkpoints.
func WithCheckpoints(n int) Option {
	return func(s *CompareService) {
		if n > 0 {
			s.checkpoints = n
		}
	}
}

// WithMicrosectors overrides the number of dominance microsectors.
func WithMicrosectors(n int) Option {
	return func(s *CompareService) {
		if n > 0 {
			s.sectors = n
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *CompareService) {
		s.l = l
	}
}

func NewCompareService(opts ...Option) *CompareService {
	ret := &CompareService{
		l:           log.Default().Named("service.compare"),
		checkpoints: resample.DefaultCheckpoints,
		sectors:     dominance.DefaultSectors,
		tracer:      otel.Tracer(scopeName),
	}
	for _, opt := range opts {
		opt(ret)
	}
	// counter creation only fails on invalid instrument names
	ret.requests, _ = otel.Meter(scopeName).Int64Counter(
		"compare.requests",
		metric.WithDescription("processed comparison/domination requests"))
	return ret
}

// Compare builds the complete two-driver comparison: the first driver's
// outline is oriented and shared, both drivers are synchronized onto one
// checkpoint axis, the running time delta is integrated and every microsector
// is tagged with the faster driver's color.
func (s *CompareService) Compare(
	ctx context.Context,
	driver1, driver2 *model.DriverTelemetry,
	color1, color2 string,
) (*model.ComparisonResult, error) {
	ctx, span := s.tracer.Start(ctx, "compare",
		trace.WithAttributes(
			attribute.String("driver1", driver1.Name),
			attribute.String("driver2", driver2.Name)))
	defer span.End()
	s.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "compare")))

	for _, d := range []*model.DriverTelemetry{driver1, driver2} {
		if err := validateStream(d, true); err != nil {
			return nil, err
		}
	}

	oriented := track.Optimize(driver1.X, driver1.Y)
	s.l.Info("track layout optimized",
		log.Int("rotation", oriented.Rotation),
		log.Float("aspectRatio", oriented.AspectRatio))

	synced := resample.Synchronize(
		[]*model.DriverTelemetry{driver1, driver2}, oriented, s.checkpoints)
	sync1, sync2 := synced[0], synced[1]

	deltaSeries := delta.Series(sync1, sync2)

	pointColors := dominance.Classify([]dominance.Entrant{
		{Name: driver1.Name, Color: color1, Speed: sync1.Speed},
		{Name: driver2.Name, Color: color2, Speed: sync2.Speed},
	}, s.checkpoints, s.sectors)

	return &model.ComparisonResult{
		Circuit: model.Circuit{
			X:      sync1.X,
			Y:      sync1.Y,
			Colors: pointColors,
		},
		Pilot1: model.Pilot{
			SynchronizedTelemetry: *sync1,
			Color:                 color1,
			Name:                  driver1.Name,
			Lap:                   driver1.Lap,
		},
		Pilot2: model.Pilot{
			SynchronizedTelemetry: *sync2,
			Color:                 color2,
			Name:                  driver2.Name,
			Lap:                   driver2.Lap,
		},
		Delta: deltaSeries,
		Metadata: model.ComparisonMetadata{
			Rotation:    oriented.Rotation,
			AspectRatio: oriented.AspectRatio,
		},
	}, nil
}

// CircuitDomination tags the reference driver's oriented outline with the
// fastest driver per microsector. No checkpoint grid is needed here: the raw
// speed channels are compared index-wise along the reference trajectory.
// colors must carry one entry per driver.
func (s *CompareService) CircuitDomination(
	ctx context.Context,
	drivers []*model.DriverTelemetry,
	colors []string,
) (*model.DominationResult, error) {
	ctx, span := s.tracer.Start(ctx, "circuit-domination",
		trace.WithAttributes(attribute.Int("drivers", len(drivers))))
	defer span.End()
	s.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "domination")))

	if len(drivers) == 0 {
		return nil, ErrNoDrivers
	}
	if len(colors) != len(drivers) {
		return nil, ErrColorMapping
	}
	for _, d := range drivers {
		if err := validateStream(d, false); err != nil {
			return nil, err
		}
	}

	reference := drivers[0]
	oriented := track.Optimize(reference.X, reference.Y)
	numPoints := len(oriented.X)

	entrants := make([]dominance.Entrant, len(drivers))
	for i, d := range drivers {
		entrants[i] = dominance.Entrant{Name: d.Name, Color: colors[i], Speed: d.Speed}
	}
	pointColors := dominance.Classify(entrants, numPoints, s.sectors)

	// the payload colors one segment between each pair of adjacent points
	segmentColors := pointColors
	if numPoints > 0 {
		segmentColors = pointColors[:numPoints-1]
	}

	return &model.DominationResult{
		X:      oriented.X,
		Y:      oriented.Y,
		Colors: segmentColors,
		Drivers: lo.Map(drivers, func(d *model.DriverTelemetry, i int) model.DominationEntry {
			return model.DominationEntry{Driver: d.Name, Color: colors[i]}
		}),
	}, nil
}

type namedChannel struct {
	name   string
	values []float64
}

// validateStream fails fast on partial input so later stages never see it.
// Every required channel must be present and carry one sample per distance
// entry. fullChannels additionally requires throttle and brake, which only
// the synchronized comparison consumes; domination works without them.
func validateStream(d *model.DriverTelemetry, fullChannels bool) error {
	channels := []namedChannel{
		{"x", d.X},
		{"y", d.Y},
		{"speed", d.Speed},
	}
	if fullChannels {
		channels = append(channels,
			namedChannel{"throttle", d.Throttle},
			namedChannel{"brake", d.Brake})
	}
	for _, c := range channels {
		if c.values == nil {
			return missingChannel(d.Name, c.name)
		}
	}
	if len(d.Distance) == 0 {
		return noData(d.Name)
	}
	for _, c := range channels {
		if len(c.values) != len(d.Distance) {
			return misalignedChannel(d.Name, c.name, len(c.values), len(d.Distance))
		}
	}
	return nil
}
