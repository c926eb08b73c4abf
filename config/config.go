// Package config reads PAYROLL_* environment variables into the service
// configuration.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/warp/payroll-engine/logger"
)

// Prefix is prepended to every variable this package reads.
const Prefix = "PAYROLL_"

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Conf is a namespaced view over environment variables.
type Conf struct{ prefix string }

// New creates a root Conf (no prefix).
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix.
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) raw(key string) string {
	return strings.TrimSpace(os.Getenv(c.key(key)))
}

// MustString panics if the key is missing or empty.
func (c Conf) MustString(key string) string {
	v := c.raw(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def if missing.
func (c Conf) MayString(key, def string) string {
	if v := c.raw(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing; logs and returns def if invalid.
func (c Conf) MayInt(key string, def int) int {
	s := c.raw(key)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Int("default", def).Msg("invalid int; using default")
	return def
}

// MayBool returns the value or def if missing; logs and returns def if invalid.
func (c Conf) MayBool(key string, def bool) bool {
	s := c.raw(key)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Bool("default", def).Msg("invalid bool; using default")
	return def
}

// MayDuration returns the value or def if missing; logs and returns def if invalid.
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.raw(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Dur("default", def).Msg("invalid duration; using default")
	return def
}

// MayCSV splits a comma-separated value; def if missing.
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.raw(key)
	if s == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value if it is one of allowed, def if missing, and
// panics otherwise.
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := strings.ToLower(c.MayString(key, def))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

// =============================================================================
// SERVICE CONFIG
// =============================================================================

// DefaultOrigins are the frontend dev servers allowed by CORS.
var DefaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://localhost:3002",
}

// Config is the full service configuration.
type Config struct {
	Port            string
	DBDriver        string
	DBPath          string
	DatabaseURL     string
	MaxConns        int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	SeedDefaults    bool
	Log             logger.Options
}

// Load reads Config from the environment.
func Load() Config {
	c := New().Prefix(Prefix)
	return Config{
		Port:            c.MayString("PORT", "8000"),
		DBDriver:        c.MayEnum("DB_DRIVER", DriverSQLite, DriverSQLite, DriverPostgres),
		DBPath:          c.MayString("DB_PATH", "./payroll.db"),
		DatabaseURL:     c.MayString("DATABASE_URL", ""),
		MaxConns:        c.MayInt("DB_MAX_CONNS", 20),
		AllowedOrigins:  c.MayCSV("ALLOWED_ORIGINS", DefaultOrigins),
		ShutdownTimeout: c.MayDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		ReadTimeout:     c.MayDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    c.MayDuration("WRITE_TIMEOUT", 15*time.Second),
		SeedDefaults:    c.MayBool("SEED_DEFAULTS", true),
		Log:             logger.FromEnv(),
	}
}

// Addr returns the listen address for Port.
func (c Config) Addr() string { return ":" + c.Port }
