package config

// this holds the resolved configuration values from CLI
var (
	DataDir         string  // directory containing lap telemetry files
	ColorsFile      string  // path to the driver color yaml file
	WatchColors     bool    // reload the color file on change
	LogLevel        string  // sets the log level (zap log level values)
	LogFormat       string  // text vs json
	HTTPServerAddr  string  // listen addr for the HTTP API
	Checkpoints     int     // number of shared distance checkpoints
	Microsectors    int     // number of dominance microsectors
	TrackLength     float64 // official track length in meters (0: use measured)
	CacheTTL        string  // duration lap files stay cached
	EnableTelemetry bool    // enable telemetry
)
