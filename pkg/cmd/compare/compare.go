package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openpitwall/telemetry-compare-go/log"
	"github.com/openpitwall/telemetry-compare-go/pkg/colors"
	"github.com/openpitwall/telemetry-compare-go/pkg/config"
	"github.com/openpitwall/telemetry-compare-go/pkg/render"
	"github.com/openpitwall/telemetry-compare-go/pkg/service"
	"github.com/openpitwall/telemetry-compare-go/pkg/store"
)

var (
	lap1     int
	lap2     int
	htmlFile string
)

func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare driver1 driver2",
		Short: "compare two laps and print the result as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareLaps(cmd.Context(), args[0], args[1])
		},
	}
	cmd.Flags().IntVar(&lap1, "lap1", 1, "lap number for the first driver")
	cmd.Flags().IntVar(&lap2, "lap2", 1, "lap number for the second driver")
	cmd.Flags().IntVar(&config.Checkpoints,
		"checkpoints",
		1000,
		"number of distance checkpoints for lap synchronization")
	cmd.Flags().IntVar(&config.Microsectors,
		"microsectors",
		25,
		"number of microsectors for dominance classification")
	cmd.Flags().StringVar(&htmlFile,
		"html",
		"",
		"write an interactive chart to this file instead of printing JSON")
	return cmd
}

func compareLaps(ctx context.Context, driver1, driver2 string) error {
	logger := log.GetFromContext(ctx).Named("compare")

	registry := loadRegistry(logger)
	lapStore := store.NewFileStore(config.DataDir,
		store.WithTrackLength(config.TrackLength))

	first, err := lapStore.Lap(ctx, driver1, lap1)
	if err != nil {
		return fmt.Errorf("loading lap for %s: %w", driver1, err)
	}
	second, err := lapStore.Lap(ctx, driver2, lap2)
	if err != nil {
		return fmt.Errorf("loading lap for %s: %w", driver2, err)
	}

	svc := service.NewCompareService(
		service.WithCheckpoints(config.Checkpoints),
		service.WithMicrosectors(config.Microsectors))

	driverColors := registry.Colors([]string{first.Name, second.Name})
	res, err := svc.Compare(ctx, first, second, driverColors[0], driverColors[1])
	if err != nil {
		return err
	}
	logger.Debug("comparison done",
		log.String("driver1", first.Name),
		log.String("driver2", second.Name),
		log.Int("rotation", res.Metadata.Rotation))

	if htmlFile != "" {
		return writeChart(htmlFile, func(f *os.File) error {
			return render.Comparison(f, res)
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func loadRegistry(logger *log.Logger) *colors.Registry {
	if config.ColorsFile == "" {
		return colors.New(nil)
	}
	registry, err := colors.Load(config.ColorsFile)
	if err != nil {
		logger.Warn("Could not load color file. Using palette fallback",
			log.ErrorField(err))
		return colors.New(nil)
	}
	return registry
}

func writeChart(path string, renderFn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()
	return renderFn(f)
}
