// Package dominance partitions a circuit into fixed-size microsectors and
// tags each one with the driver holding the speed advantage there.
package dominance

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultSectors is the default number of microsectors per lap.
const DefaultSectors = 25

// Entrant is one driver's speed channel aligned to the circuit points,
// plus the display color used when the driver wins a sector.
type Entrant struct {
	Name  string
	Color string
	Speed []float64
}

// SectorRange is a half-open index range [Start, End) of circuit points.
type SectorRange struct {
	Start int
	End   int
}

// Sectors splits [0, numPoints) into numSectors contiguous ranges. All
// sectors hold floor(numPoints/numSectors) points (at least 1); the last
// one absorbs the remainder so the ranges exactly cover every point.
func Sectors(numPoints, numSectors int) []SectorRange {
	if numSectors <= 0 {
		numSectors = DefaultSectors
	}
	perSector := numPoints / numSectors
	if perSector < 1 {
		perSector = 1
	}
	ret := make([]SectorRange, 0, numSectors)
	for k := 0; k < numSectors; k++ {
		start := k * perSector
		end := start + perSector
		if start >= numPoints {
			break
		}
		if k == numSectors-1 || end > numPoints {
			end = numPoints
		}
		ret = append(ret, SectorRange{Start: start, End: end})
	}
	return ret
}

// Classify assigns every circuit point the color of the driver with the
// strictly greatest mean speed in the point's microsector. Ties and sectors
// without any usable samples fall to the first entrant. The result has
// exactly numPoints entries; points of one sector always share one color.
func Classify(entrants []Entrant, numPoints, numSectors int) []string {
	colors := make([]string, numPoints)
	if len(entrants) == 0 || numPoints == 0 {
		return colors
	}

	for _, sector := range Sectors(numPoints, numSectors) {
		winner := 0
		best := math.Inf(-1)
		for i, e := range entrants {
			mean, ok := sectorMean(e.Speed, sector)
			if ok && mean > best {
				best = mean
				winner = i
			}
		}
		for p := sector.Start; p < sector.End; p++ {
			colors[p] = entrants[winner].Color
		}
	}
	return colors
}

// sectorMean averages the samples of the sector range, clipped to the
// entrant's own channel length. Entrants may carry fewer points than the
// reference outline in the multi-driver domination case.
func sectorMean(speed []float64, sector SectorRange) (float64, bool) {
	end := sector.End
	if end > len(speed) {
		end = len(speed)
	}
	if sector.Start >= end {
		return 0, false
	}
	return stat.Mean(speed[sector.Start:end], nil), true
}
