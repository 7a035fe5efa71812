// Package cmd implements the taxis command line.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/taxis/internal/config"
	"github.com/VoxDroid/taxis/internal/logging"
)

var (
	cfgFile  string
	baseURL  string
	logLevel string

	appConfig = config.Default
	logger    = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:           "taxis",
	Short:         "taxis browses and edits the taxi list of a taxi service",
	Long:          "taxis talks to the rest/taxis collection of a taxi service, groups taxis by registration and can serve the collection itself",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("base-url") {
			cfg.BaseURL = baseURL
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		l, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		appConfig = *cfg
		logger = l
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "taxis: run 'taxis --help' to see available commands")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $TAXIS_HOME/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the taxi service")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "danger: "+err.Error())
		}
		os.Exit(1)
	}
}
