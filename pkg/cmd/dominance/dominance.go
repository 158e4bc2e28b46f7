package dominance

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/openpitwall/telemetry-compare-go/log"
	"github.com/openpitwall/telemetry-compare-go/pkg/colors"
	"github.com/openpitwall/telemetry-compare-go/pkg/config"
	"github.com/openpitwall/telemetry-compare-go/pkg/model"
	"github.com/openpitwall/telemetry-compare-go/pkg/render"
	"github.com/openpitwall/telemetry-compare-go/pkg/service"
	"github.com/openpitwall/telemetry-compare-go/pkg/store"
)

var (
	laps     []int
	htmlFile string
)

func NewDominanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dominance driver...",
		Short: "classify circuit dominance for up to three drivers",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classifyDominance(cmd.Context(), args)
		},
	}
	cmd.Flags().IntSliceVar(&laps, "laps", []int{1},
		"lap numbers, either one for all drivers or one per driver")
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

func classifyDominance(ctx context.Context, drivers []string) error {
	logger := log.GetFromContext(ctx).Named("dominance")

	if len(laps) == 1 && len(drivers) > 1 {
		laps = lo.Map(drivers, func(_ string, _ int) int { return laps[0] })
	}
	if len(laps) != len(drivers) {
		return fmt.Errorf("expected %d lap values, got %d", len(drivers), len(laps))
	}

	registry := loadRegistry(logger)
	lapStore := store.NewFileStore(config.DataDir,
		store.WithTrackLength(config.TrackLength))

	streams := make([]*model.DriverTelemetry, len(drivers))
	for i, driver := range drivers {
		lap, err := lapStore.Lap(ctx, driver, laps[i])
		if err != nil {
			return fmt.Errorf("loading lap for %s: %w", driver, err)
		}
		streams[i] = lap
	}

	svc := service.NewCompareService(
		service.WithMicrosectors(config.Microsectors))
	res, err := svc.CircuitDomination(ctx, streams, registry.Colors(drivers))
	if err != nil {
		return err
	}
	logger.Debug("domination done", log.Int("drivers", len(res.Drivers)))

	if htmlFile != "" {
		f, err := os.Create(htmlFile)
		if err != nil {
			return fmt.Errorf("creating chart file: %w", err)
		}
		defer f.Close()
		return render.Domination(f, res)
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
