package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpitwall/telemetry-compare-go/pkg/model"
)

func sampleComparison() *model.ComparisonResult {
	sync := model.SynchronizedTelemetry{
		Distance: []float64{0, 10, 20, 30},
		X:        []float64{0, 1, 2, 3},
		Y:        []float64{0, 1, 0, -1},
		Speed:    []float64{100, 110, 120, 130},
		Throttle: []float64{100, 100, 100, 100},
		Brake:    []float64{0, 0, 0, 0},
	}
	return &model.ComparisonResult{
		Circuit: model.Circuit{
			X:      sync.X,
			Y:      sync.Y,
			Colors: []string{"#A259F7", "#A259F7", "#00B4D8", "#00B4D8"},
		},
		Pilot1:   model.Pilot{SynchronizedTelemetry: sync, Color: "#A259F7", Name: "VER", Lap: 3},
		Pilot2:   model.Pilot{SynchronizedTelemetry: sync, Color: "#00B4D8", Name: "LEC", Lap: 5},
		Delta:    []float64{0, -0.1, -0.2, -0.3},
		Metadata: model.ComparisonMetadata{Rotation: 90, AspectRatio: 2.5},
	}
}

func TestComparison_RendersHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Comparison(&buf, sampleComparison()))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "VER")
	assert.Contains(t, html, "LEC")
	assert.Contains(t, html, "Delta time")
}

func TestDomination_RendersHTML(t *testing.T) {
	res := &model.DominationResult{
		X:      []float64{0, 1, 2},
		Y:      []float64{0, 1, 0},
		Colors: []string{"#A259F7", "#00B4D8"},
		Drivers: []model.DominationEntry{
			{Driver: "VER", Color: "#A259F7"},
			{Driver: "LEC", Color: "#00B4D8"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Domination(&buf, res))
	assert.Contains(t, buf.String(), "Circuit domination")
}
