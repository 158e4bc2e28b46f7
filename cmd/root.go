package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	compareCmd "github.com/openpitwall/telemetry-compare-go/pkg/cmd/compare"
	dominanceCmd "github.com/openpitwall/telemetry-compare-go/pkg/cmd/dominance"
	httpServer "github.com/openpitwall/telemetry-compare-go/pkg/cmd/server/http"
	"github.com/openpitwall/telemetry-compare-go/pkg/config"
	"github.com/openpitwall/telemetry-compare-go/version"
)

const envPrefix = "LTC"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "ltc",
	Short:   "Lap telemetry comparison backend",
	Long:    ``,
	Version: version.FullVersion,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.ltc.yml)")

	rootCmd.PersistentFlags().StringVar(&config.DataDir, "data-dir",
		"data",
		"Directory containing the lap telemetry files")
	rootCmd.PersistentFlags().StringVar(&config.ColorsFile, "colors-file",
		"",
		"YAML file mapping driver codes to display colors")
	rootCmd.PersistentFlags().Float64Var(&config.TrackLength, "track-length",
		0,
		"Official track length in meters (0 keeps the measured distance)")
	rootCmd.PersistentFlags().StringVar(&config.CacheTTL, "cache-ttl",
		"5m",
		"Duration lap files stay cached")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"json",
		"controls the log output format")

	// add commands here
	rootCmd.AddCommand(httpServer.NewServerCmd())
	rootCmd.AddCommand(compareCmd.NewCompareCmd())
	rootCmd.AddCommand(dominanceCmd.NewDominanceCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".ltc" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ltc")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --data-dir to LTC_DATA_DIR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
