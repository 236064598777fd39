package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/shelfd/shelfd/internal/books"
	"github.com/shelfd/shelfd/internal/config"
	"github.com/shelfd/shelfd/internal/server"
	"github.com/shelfd/shelfd/internal/stats"
	"github.com/shelfd/shelfd/internal/store"
	"github.com/shelfd/shelfd/internal/version"
	"go.uber.org/zap"
)

func main() {
	// Subcommands first: `shelfd backup ...`, `shelfd restore ...`.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		}
	}

	configPath := flag.String("config", "", "path to configuration file")
	dev := flag.Bool("dev", false, "use development logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	logger, err := newLogger(*dev)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("shelfd server starting")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Open the database and bring the schema up to date.
	db, err := store.New(cfg.GetString("store.path"))
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, "books", store.BooksMigrations); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	if cfg.GetBool("store.seed") {
		n, err := db.SeedBooks(ctx)
		if err != nil {
			logger.Fatal("failed to seed sample data", zap.Error(err))
		}
		if n > 0 {
			logger.Info("sample data inserted", zap.Int("books", n))
		}
	}

	repo := books.NewSQLiteRepository(db.DB())
	agg := stats.NewAggregator(db.DB())

	addr := cfg.GetString("server.host") + ":" + strconv.Itoa(cfg.GetInt("server.port"))
	srv := server.New(server.Options{
		Addr:        addr,
		StaticDir:   cfg.GetString("server.static_dir"),
		RateRPS:     cfg.GetInt("server.rate_limit.rps"),
		RateBurst:   cfg.GetInt("server.rate_limit.burst"),
		CORSOrigins: cfg.GetStringSlice("server.cors.origins"),
	}, logger,
		books.NewHandler(repo, logger),
		stats.NewHandler(agg, logger),
	)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("shelfd server ready", zap.String("addr", addr))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("shelfd server stopped")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
