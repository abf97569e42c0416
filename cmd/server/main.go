package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"netwatch/internal/config"
	"netwatch/internal/server"
	"netwatch/internal/store"
	"netwatch/internal/store/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "netwatch",
		Short:        "Telemetry server for the network-watch browser extension",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}

	serveCmd.Flags().String("mode", config.ModeMemory, "storage mode (memory or postgres)")
	serveCmd.Flags().String("host", "127.0.0.1", "bind host")
	serveCmd.Flags().Int("port", 8080, "bind port")
	serveCmd.Flags().String("database-url", "", "Postgres DSN (required for postgres mode)")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store
	switch cfg.Mode {
	case config.ModeMemory:
		st = store.NewMemory()
		logger.Info("using in-memory storage",
			zap.Int("max_log_entries", store.MaxLogEntries),
			zap.Int("max_extension_events", store.MaxExtensionEvents),
		)
	case config.ModePostgres:
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()
		if err := pg.Init(ctx); err != nil {
			return err
		}
		st = pg
		logger.Info("database connected")
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.New(st, logger).Handler(),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	logger.Info("listening",
		zap.String("addr", addr),
		zap.String("mode", cfg.Mode),
		zap.String("log_level", cfg.LogLevel),
	)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
