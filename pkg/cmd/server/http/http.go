package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/openpitwall/telemetry-compare-go/log"
	"github.com/openpitwall/telemetry-compare-go/pkg/api"
	"github.com/openpitwall/telemetry-compare-go/pkg/colors"
	"github.com/openpitwall/telemetry-compare-go/pkg/config"
	"github.com/openpitwall/telemetry-compare-go/pkg/service"
	"github.com/openpitwall/telemetry-compare-go/pkg/store"
)

func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "starts the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer()
		},
	}
	cmd.Flags().StringVarP(&config.HTTPServerAddr,
		"http-server-addr",
		"a",
		"localhost:8000",
		"HTTP server listen address")
	cmd.Flags().IntVar(&config.Checkpoints,
		"checkpoints",
		1000,
		"number of distance checkpoints for lap synchronization")
	cmd.Flags().IntVar(&config.Microsectors,
		"microsectors",
		25,
		"number of microsectors for dominance classification")
	cmd.Flags().BoolVar(&config.WatchColors,
		"watch-colors",
		false,
		"reload the driver color file when it changes")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

//nolint:funlen,cyclop // by design
func startServer() error {
	var logger *log.Logger
	var telemetry *config.Telemetry
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}

	log.ResetDefault(logger)

	log.Debug("Config:",
		log.String("dataDir", config.DataDir),
		log.String("colorsFile", config.ColorsFile),
		log.Int("checkpoints", config.Checkpoints),
		log.Int("microsectors", config.Microsectors),
	)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
	}

	registry := setupColors(ctx)

	cacheTTL, err := time.ParseDuration(config.CacheTTL)
	if err != nil {
		log.Warn("Invalid cache-ttl value. Setting default 5m", log.ErrorField(err))
		cacheTTL = 5 * time.Minute
	}
	lapStore := store.NewFileStore(config.DataDir,
		store.WithTrackLength(config.TrackLength),
		store.WithTTL(cacheTTL))

	compare := service.NewCompareService(
		service.WithCheckpoints(config.Checkpoints),
		service.WithMicrosectors(config.Microsectors))

	apiServer := api.NewServer(lapStore, compare, registry)

	//nolint:gosec // timeouts are handled per request
	server := &http.Server{
		Addr:              config.HTTPServerAddr,
		Handler:           h2c.NewHandler(newCORS().Handler(apiServer.Handler()), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", log.String("addr", config.HTTPServerAddr))
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("server could not be started", log.ErrorField(err))
		return err
	case <-ctx.Done():
		log.Debug("Got signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("forced server shutdown", log.ErrorField(err))
	}
	telemetry.Shutdown(shutdownCtx)

	log.Info("Server terminated")
	return nil
}

func setupColors(ctx context.Context) *colors.Registry {
	if config.ColorsFile == "" {
		return colors.New(nil)
	}
	registry, err := colors.Load(config.ColorsFile)
	if err != nil {
		log.Warn("Could not load color file. Using palette fallback",
			log.ErrorField(err))
		return colors.New(nil)
	}
	if config.WatchColors {
		go func() {
			if err := registry.Watch(ctx, config.ColorsFile,
				log.Default().Named("colors")); err != nil {
				log.Warn("Could not watch color file", log.ErrorField(err))
			}
		}()
	}
	return registry
}

func newCORS() *cors.Cors {
	// The web frontend is served from a different origin, so the API
	// needs a permissive CORS setup.
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"X-Request-Id",
		},
		MaxAge: int(2 * time.Hour / time.Second),
	})
}
