package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "SHELF_"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	ListenPort      string        `env:"LISTEN_PORT" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"` // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `env:"PRETTY_LOG" envDefault:"true"` // true => zap dev (color), false => zap prod (JSON)

	// Durable store
	Backend    string `env:"STORE_BACKEND" envDefault:"file"`  // memory | file | sqlite | redis
	DataDir    string `env:"DATA_DIR" envDefault:"./data"`     // file backend directory
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/shelf.db"`
	QuotaBytes int    `env:"QUOTA_BYTES" envDefault:"5242880"` // 0 = unlimited
	KeyPrefix  string `env:"KEY_PREFIX" envDefault:"shelf:"`

	// Seed library
	SeedFile     string        `env:"SEED_FILE"`                        // optional yaml, empty = disabled
	SeedInterval time.Duration `env:"SEED_INTERVAL" envDefault:"24h"`

	TimeZone string `env:"TIME_ZONE" envDefault:"Local"` // decides where a reading day starts

	Redis Redis `envPrefix:"REDIS_"`

	// Access restrictions
	AllowedHosts []string `env:"ALLOWED_HOSTS" envSeparator:","` // optional, restrict Host headers
	AllowedCIDRS []string `env:"ALLOWED_CIDRS" envSeparator:","` // optional, restrict client IPs
	TrustProxy   bool     `env:"TRUST_PROXY" envDefault:"false"`  // true => trust X-Forwarded-For

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","` // CORS origins, "*" for any

	RateLimit float64 `env:"RATE_LIMIT" envDefault:"10"` // requests per second per client, 0 = off
	RateBurst int     `env:"RATE_BURST" envDefault:"20"`
}

// Redis holds the connection settings of the redis backend.
type Redis struct {
	Addr             string        `env:"ADDR"` // ex: "localhost:6379"
	User             string        `env:"USERNAME"`
	Password         string        `env:"PASSWORD"`
	PasswordRequired bool          `env:"PASSWORD_REQUIRED" envDefault:"false"`
	DB               int           `env:"DB" envDefault:"0"`
	DialTimeout      time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout      time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
	PoolSize         int           `env:"POOL_SIZE" envDefault:"10"`
	ConnectTimeout   time.Duration `env:"CONNECT_TIMEOUT" envDefault:"30s"` // total time to retry connecting
	RetryInterval    time.Duration `env:"RETRY_INTERVAL" envDefault:"2s"`   // grows exponentially
	MaxWait          time.Duration `env:"MAX_WAIT" envDefault:"10s"`
	PingTimeout      time.Duration `env:"PING_TIMEOUT" envDefault:"5s"`
	WarnThreshold    int           `env:"WARN_THRESHOLD" envDefault:"3"`
}

// Load parses SHELF_* variables from the process environment and validates them.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom is Load over an explicit environment; nil means the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	cfg.AllowedHosts = trimAll(cfg.AllowedHosts)
	cfg.AllowedCIDRS = trimAll(cfg.AllowedCIDRS)
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendMemory:
	case BackendFile:
		if c.DataDir == "" {
			errs = append(errs, errors.New("SHELF_DATA_DIR is required when SHELF_STORE_BACKEND=file"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SHELF_SQLITE_PATH is required when SHELF_STORE_BACKEND=sqlite"))
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("SHELF_REDIS_ADDR is required when SHELF_STORE_BACKEND=redis"))
		}
		if c.Redis.PasswordRequired && c.Redis.Password == "" {
			errs = append(errs, errors.New("SHELF_REDIS_PASSWORD is required when SHELF_REDIS_PASSWORD_REQUIRED=true"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SHELF_STORE_BACKEND %q", c.Backend))
	}

	if c.QuotaBytes < 0 {
		errs = append(errs, fmt.Errorf("SHELF_QUOTA_BYTES must be >= 0, got %d", c.QuotaBytes))
	}
	if c.SeedFile != "" && c.SeedInterval <= 0 {
		errs = append(errs, fmt.Errorf("SHELF_SEED_INTERVAL must be > 0, got %v", c.SeedInterval))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		errs = append(errs, errors.New("SHELF_RATE_LIMIT and SHELF_RATE_BURST must be >= 0"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	for _, cidr := range c.AllowedCIDRS {
		if _, _, err := net.ParseCIDR(cidr); err != nil && net.ParseIP(cidr) == nil {
			errs = append(errs, fmt.Errorf("SHELF_ALLOWED_CIDRS: invalid entry %q", cidr))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Location resolves TimeZone. "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.TimeZone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("SHELF_TIME_ZONE: %w", err)
	}
	return loc, nil
}

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	out := *c
	if out.Redis.Password != "" {
		out.Redis.Password = "***REDACTED***"
	}
	if out.Redis.User != "" {
		out.Redis.User = "***REDACTED***"
	}
	return out
}

func trimAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		// Remove surrounding quotes if present
		s = strings.Trim(strings.TrimSpace(s), `"'`)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
