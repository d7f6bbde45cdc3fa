package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/egh-lang/egh/internal/compiler/pipeline"
	"github.com/egh-lang/egh/internal/metrics"
)

var metricsAddr string

var watchCmd = &cobra.Command{
	Use:   "watch <root directory>",
	Short: "Watch a directory and recompile affected components on change",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (disabled if empty)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

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

	sessionID := uuid.NewString()
	session := logger.With(zap.String("session", sessionID))
	session.Info("watching for changes", zap.String("root", root))

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		server := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				session.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		session.Info("serving metrics", zap.String("addr", metricsAddr))
	}

	for _, entry := range cfg.Entries {
		if _, err := p.Compile(context.Background(), entry); err != nil {
			session.Warn("initial compile failed", zap.String("entry", entry), zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		session.Info("shutting down")
		cancel()
	}()

	return p.Watch(ctx, root, func(path string, result *pipeline.CompileResult, err error) {
		if err != nil {
			session.Warn("recompile failed", zap.String("path", path), zap.Error(err))
			fmt.Fprintf(os.Stderr, "error recompiling %s: %v\n", path, err)
			return
		}
		printDiagnostics(result.Diagnostics)
		session.Info("recompiled", zap.String("path", path), zap.Int("components", len(result.Sources)))
	})
}
