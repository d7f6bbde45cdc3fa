package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/egh-lang/egh/internal/compiler/pipeline"
)

var outDir string

var buildCmd = &cobra.Command{
	Use:   "build <entry.egh> [more entries...]",
	Short: "Compile one or more entry components to Go source",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&outDir, "out", "o", "build", "directory to write generated Go source into")
}

func runBuild(cmd *cobra.Command, args []string) error {
	p, err := pipeline.New(pipeline.Options{
		CacheDir:     cfg.CacheDir,
		MaxMemBytes:  cfg.MaxMemBytes,
		MaxDiskBytes: cfg.MaxDiskBytes,
		Workers:      cfg.Workers,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, entry := range args {
		result, err := p.Compile(ctx, entry)
		if err != nil {
			return fmt.Errorf("compiling %s: %w", entry, err)
		}
		printDiagnostics(result.Diagnostics)
		if result.Diagnostics.HasErrors() {
			return fmt.Errorf("compilation of %s failed with errors", entry)
		}
		if err := writeSources(result.Sources); err != nil {
			return err
		}
		logger.Info("compiled", zap.String("entry", entry), zap.Int("components", len(result.Sources)))
	}
	return nil
}

func writeSources(sources map[string]string) error {
	for path, src := range sources {
		name := packageDirName(path)
		dir := filepath.Join(outDir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		outFile := filepath.Join(dir, name+".go")
		if err := os.WriteFile(outFile, []byte(src), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outFile, err)
		}
	}
	return nil
}

func packageDirName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return base[:len(base)-len(filepath.Ext(base))]
}
