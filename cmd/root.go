package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/listenlens/internal/config"
	"github.com/KaramelBytes/listenlens/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration and the logger built from it
	cfg    *cfgpkg.Global
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "listenlens",
	Short:         "ListenLens: exploratory analysis of music-streaming listener surveys",
	Long:          `ListenLens loads a listener-preferences table, cleans it, derives engagement features, prints descriptive statistics and renders charts for five fixed questions about platforms, genres, age groups, subscriptions and countries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.listenlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text | json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so config set can repair a broken file
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		d := cfgpkg.Default()
		c = &d
	}
	cfg = c

	level, format := cfg.LogLevel, cfg.LogFormat
	if debug {
		level = "debug"
	}
	if logFormat != "" {
		format = logFormat
	}
	l, err := logging.New(level, format, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using text logs\n", err)
		l, _ = logging.New(level, "text", os.Stderr)
	}
	logger = l
	slog.SetDefault(logger)
}

// currentConfig returns the loaded configuration, or defaults when none was loaded.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		d := cfgpkg.Default()
		cfg = &d
	}
	return cfg
}
