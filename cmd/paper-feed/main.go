// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-feed CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/paper-feed/internal/config"
	"github.com/pdiddy/paper-feed/pkg/types"
)

const (
	projectName     = "paper-feed"
	projectHomepage = "https://github.com/pdiddy/paper-feed"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose bool
	logger  = zap.NewNop()
)

// rootCmd is the base command for the paper-feed CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-feed",
	Short: "Build a daily digest of new arXiv papers",
	Long: `paper-feed pulls the latest papers for a list of arXiv categories, merges
them into the snapshot left by the previous run, drops days that have aged
out of the retention window, and renders the result as a static page.

Each run is independent: it reads the previous cache.json, fetches every
source, and writes a fresh cache.json, index.html, and view export into the
target directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-feed.yaml or $XDG_CONFIG_HOME/paper-feed/paper-feed.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	config.Setup(viper.GetViper(), cfgFile)

	used, err := config.Read(viper.GetViper())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

// newLogger builds the production logger, at debug level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// loadConfig decodes and validates the merged viper settings.
func loadConfig() (types.FeedConfig, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return cfg, err
	}
	logger.Debug("configuration loaded", zap.String("summary", config.Describe(cfg)))
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
