// Package config loads server settings from the environment, after an
// optional .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvProduction is the DOJO_ENV value that enables strict settings.
const EnvProduction = "production"

// KeyLength is the byte length of the CSRF and flash signing keys.
const KeyLength = 32

// Config holds every tunable the server reads at startup.
type Config struct {
	Addr            string
	DBPath          string
	Env             string
	CSRFKey         []byte
	FlashKey        []byte
	TrustedOrigins  []string
	ManagerUsername string
	ManagerPassword string
	ResendKey       string
	MailFrom        string
	LogLevel        slog.Level
	SlowQueryMs     int
	SlowRequestMs   int
	RateLimit       int // requests per second per IP
}

// IsProduction reports whether strict production settings apply.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads .env (if present) and then the DOJO_* environment variables.
// Variables already set in the environment win over .env values.
// PRE: none
// POST: keys are KeyLength bytes; in production missing keys or a missing
// manager password are errors, elsewhere keys are generated per start
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		Addr:            envOrDefault("DOJO_ADDR", ":8080"),
		DBPath:          envOrDefault("DOJO_DB_PATH", "dojo.db"),
		Env:             envOrDefault("DOJO_ENV", "development"),
		ManagerUsername: envOrDefault("DOJO_MANAGER_USERNAME", "manager"),
		ManagerPassword: os.Getenv("DOJO_MANAGER_PASSWORD"),
		ResendKey:       os.Getenv("DOJO_RESEND_KEY"),
		MailFrom:        envOrDefault("DOJO_MAIL_FROM", "Dojo <noreply@example.com>"),
		TrustedOrigins:  splitList(os.Getenv("DOJO_TRUSTED_ORIGINS")),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(envOrDefault("DOJO_LOG_LEVEL", "info")); err != nil {
		return Config{}, err
	}
	if cfg.SlowQueryMs, err = envInt("DOJO_SLOW_QUERY_MS", 100); err != nil {
		return Config{}, err
	}
	if cfg.SlowRequestMs, err = envInt("DOJO_SLOW_REQUEST_MS", 200); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit, err = envInt("DOJO_RATE_LIMIT", 10); err != nil {
		return Config{}, err
	}
	if cfg.CSRFKey, err = loadKey("DOJO_CSRF_KEY", cfg.IsProduction()); err != nil {
		return Config{}, err
	}
	if cfg.FlashKey, err = loadKey("DOJO_FLASH_KEY", cfg.IsProduction()); err != nil {
		return Config{}, err
	}
	if cfg.IsProduction() && cfg.ManagerPassword == "" {
		return Config{}, errors.New("DOJO_MANAGER_PASSWORD is required in production")
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func parseLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("DOJO_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// loadKey decodes a hex-encoded KeyLength-byte key, or generates one outside production.
func loadKey(name string, production bool) ([]byte, error) {
	if keyHex := os.Getenv(name); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != KeyLength {
			return nil, fmt.Errorf("%s must be %d hex characters", name, KeyLength*2)
		}
		return key, nil
	}
	if production {
		return nil, fmt.Errorf("%s is required in production", name)
	}
	key := make([]byte, KeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate %s: %w", name, err)
	}
	slog.Warn("config_event", "event", "random_key", "key", name)
	return key, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
