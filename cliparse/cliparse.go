// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "https://quickpoll-api-l9db.onrender.com"

type Config struct {
	APIURL      string
	StoreURL    string
	StoreType   string
	Timeout     time.Duration
	LogLevel    slog.Level
	MetricsAddr string
	AssumeYes   bool

	// Command and its arguments, everything after the flags
	Command string
	Args    []string
}

// ParseFlags reads flags, then the environment (including a .env file) for anything unset
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var level, timeout string

	fs := flag.NewFlagSet("quickpoll", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "api", "", "API base URL")
	fs.StringVar(&cfg.StoreURL, "store", "", "Session store URL")
	fs.StringVar(&cfg.StoreType, "store-type", "", "Session store type (sqlite or postgres)")
	fs.StringVar(&timeout, "timeout", "", "Per-request timeout (e.g. 15s)")
	fs.StringVar(&level, "v", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve prometheus metrics while watching")
	fs.BoolVar(&cfg.AssumeYes, "y", false, "Answer yes to confirmation prompts")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = os.Getenv("QUICKPOLL_API_URL")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if cfg.StoreType == "" {
		cfg.StoreType = os.Getenv("QUICKPOLL_STORE_TYPE")
		if cfg.StoreType == "" {
			cfg.StoreType = "sqlite"
		}
	}
	if cfg.StoreType != "sqlite" && cfg.StoreType != "postgres" {
		return Config{}, fmt.Errorf("unsupported store type %q", cfg.StoreType)
	}

	if cfg.StoreURL == "" {
		cfg.StoreURL = os.Getenv("QUICKPOLL_STORE_URL")
	}
	if cfg.StoreURL == "" {
		if cfg.StoreType == "postgres" {
			return Config{}, errors.New("store URL required for postgres (use -store or QUICKPOLL_STORE_URL env)")
		}
		path, err := defaultStorePath()
		if err != nil {
			return Config{}, err
		}
		cfg.StoreURL = "file:" + path
	}

	if timeout == "" {
		timeout = os.Getenv("QUICKPOLL_TIMEOUT")
	}
	cfg.Timeout = 15 * time.Second
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return Config{}, errors.New("invalid timeout")
		}
		cfg.Timeout = d
	}

	if level == "" {
		level = os.Getenv("QUICKPOLL_LOG_LEVEL")
	}
	cfg.LogLevel = slog.LevelWarn
	if level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Config{}, fmt.Errorf("invalid log level %q", level)
		}
	}

	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = os.Getenv("QUICKPOLL_METRICS_ADDR")
	}

	rest := fs.Args()
	if len(rest) > 0 {
		cfg.Command = rest[0]
		cfg.Args = rest[1:]
	}

	return cfg, nil
}

func defaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	dir := filepath.Join(home, ".quickpoll")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return filepath.Join(dir, "session.db"), nil
}
