package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"rollcall/internal/application/listutil"
)

// config holds the process settings read from the environment.
type config struct {
	Addr         string
	DBPath       string
	Env          string
	CSRFKey      string
	StudentCount int
	PageSize     int
	LogLevel     slog.Level
	SlowQuery    time.Duration
	SlowRequest  time.Duration
}

// Production reports whether ROLLCALL_ENV is production.
func (c config) Production() bool {
	return c.Env == "production"
}

// TrustedOrigins lists the localhost origins for the listen port so CSRF
// origin checks pass when the app is opened from the same machine.
func (c config) TrustedOrigins() []string {
	_, port, err := net.SplitHostPort(c.Addr)
	if err != nil || port == "" {
		return nil
	}
	return []string{"localhost:" + port, "127.0.0.1:" + port}
}

// loadConfig reads ROLLCALL_* variables. getenv is os.Getenv outside tests.
// POST: numeric fields are positive and PageSize is one of listutil.PerPageOptions
func loadConfig(getenv func(string) string) (config, error) {
	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := config{
		Addr:    env("ROLLCALL_ADDR", ":8080"),
		DBPath:  env("ROLLCALL_DB", "rollcall.db"),
		Env:     env("ROLLCALL_ENV", "development"),
		CSRFKey: getenv("ROLLCALL_CSRF_KEY"),
	}

	var err error
	if cfg.StudentCount, err = positiveInt(env("ROLLCALL_STUDENT_COUNT", "80")); err != nil {
		return cfg, fmt.Errorf("ROLLCALL_STUDENT_COUNT: %w", err)
	}
	if cfg.PageSize = listutil.ParsePerPage(env("ROLLCALL_PAGE_SIZE", "16"), 0); cfg.PageSize == 0 {
		return cfg, fmt.Errorf("ROLLCALL_PAGE_SIZE: must be one of %v", listutil.PerPageOptions)
	}
	ms, err := positiveInt(env("ROLLCALL_SLOW_QUERY_MS", "50"))
	if err != nil {
		return cfg, fmt.Errorf("ROLLCALL_SLOW_QUERY_MS: %w", err)
	}
	cfg.SlowQuery = time.Duration(ms) * time.Millisecond
	if ms, err = positiveInt(env("ROLLCALL_SLOW_REQUEST_MS", "200")); err != nil {
		return cfg, fmt.Errorf("ROLLCALL_SLOW_REQUEST_MS: %w", err)
	}
	cfg.SlowRequest = time.Duration(ms) * time.Millisecond

	if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToLower(env("ROLLCALL_LOG_LEVEL", "info")))); err != nil {
		return cfg, fmt.Errorf("ROLLCALL_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
