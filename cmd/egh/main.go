// Package main implements the egh CLI: compile .egh components to Go,
// watch a project for incremental rebuilds, and bundle route roots into
// a deployable chunk manifest.
//
// Command implementations are split across these files:
//   - main.go     - entry point, rootCmd, global flags
//   - build.go    - buildCmd: one-shot compile + write generated Go
//   - watch.go    - watchCmd: incremental recompilation on file change
//   - bundle.go   - bundleCmd: chunk manifest for a set of route roots
//   - fmt.go      - fmtCmd: canonical section ordering/indentation
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/egh-lang/egh/internal/config"
)

var (
	verbose   bool
	cacheDir  string
	workers   int
	configPath string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "egh",
	Short: "egh - compiler and incremental build engine for .egh components",
	Long: `egh compiles .egh single-file components (script + template + style)
into plain Go, and provides an incremental build engine on top: a module
graph, a content-addressed build cache, a worker-pool scheduler, a
filesystem invalidator, and a route-based bundler.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.TimeKey = ""
		built, err := zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = built

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cacheDir != "" {
			loaded.CacheDir = cacheDir
		}
		if workers > 0 {
			loaded.Workers = workers
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "override the build cache directory")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "override the scheduler worker count")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "egh.yaml", "path to the project config file")

	rootCmd.AddCommand(buildCmd, watchCmd, bundleCmd, fmtCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
