package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/womenmatters/internal/config"
	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"github.com/KaramelBytes/womenmatters/internal/logging"
	"github.com/KaramelBytes/womenmatters/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagDataPath  string
	flagLogLevel  string
	flagLogFormat string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "womenmatters",
	Short: "WomenMatters: explore survey data on attitudes toward violence against women",
	Long: `WomenMatters loads the survey CSV once, cleans it, applies your filters and
computes the ten dashboard aggregations. Results are printed as tables,
Markdown or JSON, or served over HTTP and WebSocket with "serve".`,
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
	rootCmd.PersistentPreRunE = setupLogger
	rootCmd.PersistentPostRun = syncLogger

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.womenmatters/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "survey CSV path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text or json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{
			DataPath:            "women_violence.csv",
			DefaultCountryCount: 5,
			PreviewRows:         5,
			WordCloudTop:        100,
			LogLevel:            "info",
			LogFormat:           "text",
			ListenAddr:          ":8080",
			ReadTimeoutSec:      15,
			WriteTimeoutSec:     15,
			SessionIdleSec:      1800,
		}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagDataPath != "" {
		cfg.DataPath = flagDataPath
	}
	if f.Changed("log-level") && flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if f.Changed("log-format") && flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
}

// setupLogger builds the process logger from the loaded config. --debug wins
// over log_level.
func setupLogger(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		loadConfig()
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	l, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func syncLogger(cmd *cobra.Command, args []string) {
	_ = logger.Sync()
}

// openSource returns the dataset source for the configured path. Nothing is
// read until the first Raw or Cleaned call.
func openSource() *dataset.Source {
	return dataset.NewSource(cfg.DataPath, logger)
}

func sessionOptions() session.Options {
	opts := session.DefaultOptions()
	opts.DefaultCountryCount = cfg.DefaultCountryCount
	opts.WordCloudTop = cfg.WordCloudTop
	opts.Logger = logger
	return opts
}
