package model

// Wire payloads consumed by the web frontend. Field names follow the
// existing frontend contract, so no renaming here.

// Circuit is the shared track outline with one color per point,
// derived from microsector dominance.
type Circuit struct {
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	Colors []string  `json:"colors"`
}

// Pilot is one driver's synchronized telemetry plus display attributes.
type Pilot struct {
	SynchronizedTelemetry
	Color string `json:"color"`
	Name  string `json:"name"`
	Lap   int    `json:"lap"`
}

//nolint:tagliatelle // frontend contract
type ComparisonMetadata struct {
	Rotation    int     `json:"rotation"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// ComparisonResult is the complete two-driver comparison payload.
type ComparisonResult struct {
	Circuit  Circuit            `json:"circuit"`
	Pilot1   Pilot              `json:"pilot1"`
	Pilot2   Pilot              `json:"pilot2"`
	Delta    []float64          `json:"delta"`
	Metadata ComparisonMetadata `json:"metadata"`
}

// DominationEntry maps a driver to its display color.
type DominationEntry struct {
	Driver string `json:"driver"`
	Color  string `json:"color"`
}

// DominationResult is the N-driver circuit domination payload. Colors holds
// one entry per adjacent-point segment of the outline (len(X)-1 entries).
type DominationResult struct {
	X       []float64         `json:"x"`
	Y       []float64         `json:"y"`
	Colors  []string          `json:"colors"`
	Drivers []DominationEntry `json:"drivers"`
}
