// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/polly/cliparse"
	"github.com/danielhkuo/polly/db"
	"github.com/danielhkuo/polly/middleware"
	"github.com/danielhkuo/polly/revalidate"
	"github.com/danielhkuo/polly/router"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	middleware.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return err
	}
	dbConn, err := db.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		return err
	}
	slog.Info("database schema ready", "dialect", string(dialect))

	// Optional Redis
	var rdb redis.UniversalClient
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		rdb = client
		err := revalidate.Subscribe(ctx, rdb, revalidate.DefaultChannel, func(path string) {
			slog.Debug("revalidation received", "path", path)
		})
		if err != nil {
			return err
		}
		slog.Info("redis connected", "addr", cfg.RedisAddr)
	}

	// Create router
	handler, err := router.NewRouter(dbConn, cfg, rdb)
	if err != nil {
		return err
	}

	// Create server
	server := http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C or SIGTERM
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server closed")
	return nil
}
