//go:build !js
// +build !js

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the server settings.
type Config struct {
	Addr          string        // HTTP listen address
	RedisAddr     string        // WAV cache; empty disables caching
	RedisPassword string        // Redis AUTH password
	RedisDB       int           // Redis database index
	CacheTTL      time.Duration // Lifetime of a cached WAV
	LogLevel      string        // logrus level name
	LogFormat     string        // "text" or "json"
	AllowOrigin   string        // Access-Control-Allow-Origin value; "*" allows any
}

var DefaultConfig = Config{
	Addr:        ":8080",
	CacheTTL:    24 * time.Hour,
	LogLevel:    "info",
	LogFormat:   "text",
	AllowOrigin: "*",
}

const envPrefix = "PFXR_"

// LoadConfig layers DefaultConfig, an optional .env file, PFXR_* environment
// variables and finally command line flags.
func LoadConfig(args []string) (Config, error) {
	cfg := DefaultConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	fset := flag.NewFlagSet("pfxr-server", flag.ContinueOnError)
	fset.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fset.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the WAV cache (empty disables)")
	fset.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "Redis password")
	fset.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database")
	fset.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Cached WAV lifetime")
	fset.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fset.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	fset.StringVar(&cfg.AllowOrigin, "allow-origin", cfg.AllowOrigin, "CORS allowed origin")
	if err := fset.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	str("ADDR", &c.Addr)
	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_PASSWORD", &c.RedisPassword)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("ALLOW_ORIGIN", &c.AllowOrigin)

	if v, ok := lookup(envPrefix + "REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sREDIS_DB: %w", envPrefix, err)
		}
		c.RedisDB = db
	}
	if v, ok := lookup(envPrefix + "CACHE_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_TTL: %w", envPrefix, err)
		}
		c.CacheTTL = ttl
	}
	return nil
}

// NewLogger builds the logger described by the config.
func (c Config) NewLogger() (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	switch c.LogFormat {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return logger, nil
}
