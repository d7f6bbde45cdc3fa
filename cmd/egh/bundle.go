package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/egh-lang/egh/internal/compiler/pipeline"
)

var manifestOut string

var bundleCmd = &cobra.Command{
	Use:   "bundle <root1.egh> [root2.egh...]",
	Short: "Partition route roots into chunks and write a manifest",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBundle,
}

func init() {
	bundleCmd.Flags().StringVarP(&manifestOut, "out", "o", "manifest.json", "path to write the chunk manifest")
}

func runBundle(cmd *cobra.Command, args []string) error {
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

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("compiling route roots"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(colorEnabled),
	)

	for _, root := range args {
		result, err := p.Compile(context.Background(), root)
		if err != nil {
			return fmt.Errorf("compiling %s: %w", root, err)
		}
		printDiagnostics(result.Diagnostics)
		if result.Diagnostics.HasErrors() {
			return fmt.Errorf("compilation of %s failed with errors", root)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	manifest, err := p.Bundle(args)
	if err != nil {
		return fmt.Errorf("bundling: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	outPath, err := filepath.Abs(manifestOut)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("wrote manifest with %d chunks to %s\n", len(manifest.Chunks), outPath)
	return nil
}
