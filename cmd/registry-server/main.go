// Package main provides the fiber plant registry server entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openfiber/network-registry/pkg/plant"
)

func main() {
	var (
		configPath string
		listenAddr string
		dbType     string
		dbDSN      string
	)

	flag.StringVar(&configPath, "config", "registry.yaml", "Path to server config file")
	flag.StringVar(&listenAddr, "listen", "", "Address to listen on (overrides config)")
	flag.StringVar(&dbType, "db-type", "", "Database type: sqlite, postgres, or mysql (overrides config)")
	flag.StringVar(&dbDSN, "db-dsn", "", "Database connection string (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := plant.LoadConfig(configPath)
	if err != nil {
		logger.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}
	if dbType != "" {
		cfg.Database.Type = dbType
	}
	if dbDSN != "" {
		cfg.Database.DSN = dbDSN
	}

	logger.Info("starting registry server",
		"listen", cfg.Listen,
		"dbType", cfg.Database.Type,
	)

	db, err := openDatabase(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	store := plant.NewStore(db)
	if err := store.AutoMigrate(); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	audit := plant.NewAuditStore(db, logger)
	reg := &plant.Registry{
		Assets:      plant.NewAssetManager(store, audit, logger),
		Customers:   plant.NewCustomerManager(store, audit, logger),
		Assignments: plant.NewAssignmentCoordinator(store, audit, logger),
		Tasks:       plant.NewTaskCoordinator(store, audit, logger),
		Topology:    plant.NewTopologyBuilder(store),
		Infra:       plant.NewInfraManager(store, logger),
		Audit:       audit,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	retention := plant.NewRetentionWorker(audit, cfg.Audit.RetentionDays, logger)
	go retention.Run(ctx)

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: plant.NewRouter(reg, cfg.CORS.AllowedOrigins),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown failed", "error", err)
		}
	}()

	logger.Info("registry server ready", "listen", cfg.Listen)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("registry server stopped")
}

// openDatabase connects to the configured backend. The GORM logger is
// silenced; the server logs through slog.
func openDatabase(cfg plant.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	switch cfg.Type {
	case "sqlite", "":
		return gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	case "mysql":
		return gorm.Open(mysql.Open(cfg.DSN), gormCfg)
	default:
		return nil, fmt.Errorf("unknown database type %q (expected sqlite, postgres, or mysql)", cfg.Type)
	}
}
