// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gardenwatch/timerflow/internal/action"
	"github.com/gardenwatch/timerflow/internal/build"
	"github.com/gardenwatch/timerflow/internal/config"
	"github.com/gardenwatch/timerflow/internal/logger"
	"github.com/gardenwatch/timerflow/internal/runner"
	"github.com/gardenwatch/timerflow/internal/timerstore"
	"github.com/gardenwatch/timerflow/internal/web"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the timer runner",
		Long:  `timerflowd serve [--host=<host>] [--port=<port>] [--store=<memory|file>]`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
	cmd.Flags().String("host", "", "HTTP listen host (overrides config)")
	cmd.Flags().Int("port", 0, "HTTP listen port (overrides config)")
	cmd.Flags().String("store", "", "timer store backend: memory or file (overrides config)")
	cmd.Flags().String("store-dir", "", "directory for the file store backend (overrides config)")
	cmd.Flags().String("action", "", "action module: noop, logging, ... (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load(config.BindFlags(func(v *viper.Viper) {
		_ = v.BindPFlag("host", cmd.Flags().Lookup("host"))
		_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
		_ = v.BindPFlag("store_backend", cmd.Flags().Lookup("store"))
		_ = v.BindPFlag("store_dir", cmd.Flags().Lookup("store-dir"))
		_ = v.BindPFlag("action_module", cmd.Flags().Lookup("action"))
	}))
	if err != nil {
		log.Fatalf("configuration load failed: %v", err)
	}

	svcLog := newServiceLogger(cfg)
	svcLog.Info("starting "+build.AppName, "host", cfg.Host, "port", cfg.Port,
		"store_backend", cfg.StoreBackend, "action_module", cfg.ActionModule)

	store, err := openStore(cfg)
	if err != nil {
		svcLog.Fatal("failed to open timer store", "error", err)
	}
	listenable := timerstore.NewListenable(store)

	controller, err := action.NewController(cfg.ActionModule, svcLog)
	if err != nil {
		svcLog.Fatal("failed to resolve action module", "error", err)
	}

	r := runner.New(listenable, controller, systemClock,
		runner.WithMinPollPeriod(cfg.MinPollPeriod),
		runner.WithLogger(svcLog))

	closeWatcher, err := watchStoreIfFileBacked(cfg, r, svcLog)
	if err != nil {
		svcLog.Fatal("failed to watch timer store directory", "error", err)
	}
	defer closeWatcher()

	server := web.NewServer(web.Config{
		Host:              cfg.Host,
		Port:              cfg.Port,
		BasicAuthUsername: cfg.BasicAuthUsername,
		BasicAuthPassword: cfg.BasicAuthPassword,
	}, listenable, r, svcLog)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runErrs := make(chan error, 1)
	go func() {
		runErrs <- r.Run(ctx)
	}()

	serveErrs := make(chan error, 1)
	go func() {
		serveErrs <- server.Serve()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		svcLog.Info("received signal, shutting down", "signal", sig.String())
	case err := <-runErrs:
		if err != nil {
			svcLog.Error("runner stopped unexpectedly", "error", err)
		}
	case err := <-serveErrs:
		if err != nil {
			svcLog.Error("web server stopped unexpectedly", "error", err)
		}
	}

	r.RequestStop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		svcLog.Error("web server shutdown error", "error", err)
	}
	cancel()

	if err := <-runErrs; err != nil {
		svcLog.Warn("runner exited with error", "error", err)
	}
	return nil
}

func newServiceLogger(cfg config.Config) logger.Logger {
	opts := []logger.Option{logger.WithFormat(cfg.LogFormat)}
	if cfg.LogLevel == "debug" {
		opts = append(opts, logger.WithDebug())
	}
	if cfg.LogFile != "" {
		f, err := logger.OpenRotatableFile(cfg.LogFile)
		if err != nil {
			log.Fatalf("failed to open log file %s: %v", cfg.LogFile, err)
		}
		opts = append(opts, logger.WithWriter(f))
	}
	return logger.NewLogger(opts...)
}

func openStore(cfg config.Config) (timerstore.Store, error) {
	switch cfg.StoreBackend {
	case "file":
		store, err := timerstore.NewFileStore(cfg.StoreDir)
		if err != nil {
			return nil, fmt.Errorf("opening file store at %s: %w", cfg.StoreDir, err)
		}
		return store, nil
	default:
		return timerstore.NewMemoryStore(), nil
	}
}

// watchStoreIfFileBacked watches the file store's directory for edits
// made by another process sharing it and republishes them to r, since
// such edits bypass r's own store.OnAdded/OnRemoved listeners. It is a
// no-op for the in-memory backend, which nothing outside this process
// can ever touch.
func watchStoreIfFileBacked(cfg config.Config, r *runner.Runner, log logger.Logger) (func(), error) {
	if cfg.StoreBackend != "file" {
		return func() {}, nil
	}
	watcher, err := timerstore.WatchDir(cfg.StoreDir, slog.Default(), func() {
		log.Debug("timer store directory changed on disk, refreshing schedule")
		r.Refresh()
	})
	if err != nil {
		return nil, fmt.Errorf("watching store directory %s: %w", cfg.StoreDir, err)
	}
	return func() { _ = watcher.Close() }, nil
}
