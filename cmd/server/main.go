package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "modernc.org/sqlite"

	web "rollcall/internal/adapters/http"
	"rollcall/internal/adapters/http/middleware"
	"rollcall/internal/adapters/storage"
	attendanceStore "rollcall/internal/adapters/storage/attendance"
	"rollcall/internal/adapters/storage/kv"
	rosterStore "rollcall/internal/adapters/storage/roster"
	themeStore "rollcall/internal/adapters/storage/theme"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A missing .env file is fine; real environment variables win.
	if err := godotenv.Load(envOrDefault("ROLLCALL_ENV_FILE", ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to read env file: %v", err)
	}

	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := run(cfg); err != nil {
		slog.Error("server_stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("sqlite", storage.DSN(cfg.DBPath))
	if err != nil {
		return err
	}
	// One writer keeps a local SQLite file free of busy errors.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	if err := storage.MigrateDB(ctx, db); err != nil {
		db.Close()
		return err
	}
	timedDB := storage.NewTimedDB(db, cfg.SlowQuery)
	defer timedDB.Close()

	csrfKey, err := middleware.LoadCSRFKey(cfg.CSRFKey, cfg.Production())
	if err != nil {
		return err
	}

	store := kv.NewSQLiteStore(timedDB)
	srv, err := web.NewServer(ctx, web.Stores{
		RosterStore:     rosterStore.NewKVStore(store),
		AttendanceStore: attendanceStore.NewKVStore(store),
		ThemeStore:      themeStore.NewKVStore(store),
	}, web.Options{
		StudentCount:   cfg.StudentCount,
		PageSize:       cfg.PageSize,
		CSRFKey:        csrfKey,
		SecureCookies:  cfg.Production(),
		TrustedOrigins: cfg.TrustedOrigins(),
		SlowRequest:    cfg.SlowRequest,
		Health:         timedDB.Ping,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env,
			"db", cfg.DBPath, "schema", storage.LatestSchemaVersion())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_shutdown", "reason", "signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
