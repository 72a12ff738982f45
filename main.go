package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"preset-selector/config"
	"preset-selector/preset"
)

var (
	// Global flags
	configPath  string
	verbose     bool
	presetDir   string
	wildcardDir string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "preset-selector",
	Short: "Pick prompt presets from text and YAML files",
	Long: `preset-selector loads presets (one per line in .txt files, or lists and
nested mappings in .yaml files), filters them by keywords, selects one by
index, sequence or seed, and expands {A|B}, __file__ and {__key__} wildcards.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if presetDir != "" {
			cfg.PresetDir = presetDir
		}
		if wildcardDir != "" {
			cfg.WildcardDir = wildcardDir
		}

		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(cfg.GetLogLevel())
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "preset-selector.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&presetDir, "preset-dir", "", "preset directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&wildcardDir, "wildcard-dir", "", "shared wildcard directory (overrides config)")

	rootCmd.AddCommand(serveCmd, selectCmd, listCmd, configCmd)
}

// newEngine builds the engine over the configured search paths.
func newEngine() *preset.Engine {
	loader := preset.NewLoader(logger, cfg.SearchPaths()...)
	return preset.NewEngine(loader, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
