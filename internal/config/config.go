package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/promptlib/internal/logger"
)

// Storage backends selectable with PROMPTLIB_STORE.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	Home       string // base directory for local data (default: $XDG_DATA_HOME/promptlib)
	StoreType  string // memory | file | redis | sqlite
	StoreKey   string // key the collection is stored under (default: prompts)
	DataDir    string // directory of the file backend (default: Home)
	SQLitePath string // database of the sqlite backend (default: Home/promptlib.db)

	// Background jobs
	SeedFile         string        // optional YAML starter pack, imported when the library is empty
	SyncInterval     time.Duration // re-read the store this often (0 = only on /reload)
	SnapshotDir      string        // optional, where periodic exports are written (empty = disabled)
	SnapshotInterval time.Duration // default: 24h
	SnapshotRetain   int           // snapshots kept, oldest pruned first (0 = keep all)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => refuse to start without a password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // dial timeout
	RedisRT               time.Duration // read timeout
	RedisWT               time.Duration // write timeout
	RedisMaxWait          time.Duration // max wait between connect retries
	RedisPingTimeout      time.Duration // timeout for each ping attempt
	RedisPoolSize         int           // connection pool size
	RedisConnectTimeout   time.Duration // total time to retry connecting
	RedisRetryInterval    time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold    int           // warn after this many attempts

	// HTTP access
	AllowedHosts    []string // optional, restrict access to specific Host headers
	AllowedCIDRS    []string // optional, restrict access to specific IPs or CIDRs
	TrustProxy      bool     // true => trust X-Forwarded-For headers
	CORSOrigins     []string // optional, origins allowed to call the API from a browser
	RateLimitBurst  int      // mutating requests allowed in a burst, per client IP
	RateLimitPerMin int      // sustained mutating requests per minute, per client IP
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first; variables already set win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	home := getenv("PROMPTLIB_HOME", defaultHome())

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("PROMPTLIB_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("PROMPTLIB_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("PROMPTLIB_LOG_LEVEL", "info"),
		PrettyLog: mustBool("PROMPTLIB_PRETTY_LOG", true),

		// Storage
		Home:       home,
		StoreType:  strings.ToLower(getenv("PROMPTLIB_STORE", StoreFile)),
		StoreKey:   getenv("PROMPTLIB_STORE_KEY", "prompts"),
		DataDir:    getenv("PROMPTLIB_DATA_DIR", home),
		SQLitePath: getenv("PROMPTLIB_SQLITE_PATH", filepath.Join(home, "promptlib.db")),

		// Background jobs
		SeedFile:         getenv("PROMPTLIB_SEED_FILE", ""),
		SyncInterval:     mustDuration("PROMPTLIB_SYNC_INTERVAL", 0),
		SnapshotDir:      getenv("PROMPTLIB_SNAPSHOT_DIR", ""),
		SnapshotInterval: mustDuration("PROMPTLIB_SNAPSHOT_INTERVAL", 24*time.Hour),
		SnapshotRetain:   getenvInt("PROMPTLIB_SNAPSHOT_RETAIN", 14),

		// Redis settings
		RedisAddr:             getenv("PROMPTLIB_REDIS_ADDR", ""),
		RedisUser:             getenv("PROMPTLIB_REDIS_USERNAME", ""),
		RedisPassword:         getenv("PROMPTLIB_REDIS_PASSWORD", ""),
		RedisPasswordRequired: mustBool("PROMPTLIB_REDIS_PASSWORD_REQUIRED", false),
		RedisDB:               getenvInt("PROMPTLIB_REDIS_DB", 0),
		RedisDT:               mustDuration("PROMPTLIB_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("PROMPTLIB_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("PROMPTLIB_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("PROMPTLIB_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("PROMPTLIB_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("PROMPTLIB_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("PROMPTLIB_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("PROMPTLIB_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("PROMPTLIB_REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:    splitAndTrim(getenv("PROMPTLIB_ALLOWED_HOSTS", "")),
		AllowedCIDRS:    parseAllowedIPs(getenv("PROMPTLIB_ALLOWED_CIDRS", "")),
		TrustProxy:      mustBool("PROMPTLIB_TRUST_PROXY", false),
		CORSOrigins:     splitAndTrim(getenv("PROMPTLIB_CORS_ORIGINS", "")),
		RateLimitBurst:  getenvInt("PROMPTLIB_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("PROMPTLIB_RATE_LIMIT_PER_MIN", 120),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("PROMPTLIB_LOG_LEVEL: unknown level %q", c.LogLevel))
	}
	if c.StoreKey == "" || strings.ContainsAny(c.StoreKey, `/\`) {
		errs = append(errs, fmt.Errorf("PROMPTLIB_STORE_KEY: invalid key %q", c.StoreKey))
	}
	if c.SyncInterval < 0 {
		errs = append(errs, fmt.Errorf("PROMPTLIB_SYNC_INTERVAL must be >= 0, got %v", c.SyncInterval))
	}
	if c.SnapshotDir != "" && c.SnapshotInterval <= 0 {
		errs = append(errs, fmt.Errorf("PROMPTLIB_SNAPSHOT_INTERVAL must be > 0, got %v", c.SnapshotInterval))
	}

	switch c.StoreType {
	case StoreMemory:
	case StoreFile:
		if c.DataDir == "" {
			errs = append(errs, errors.New("PROMPTLIB_DATA_DIR is required when PROMPTLIB_STORE=file"))
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("PROMPTLIB_SQLITE_PATH is required when PROMPTLIB_STORE=sqlite"))
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("PROMPTLIB_REDIS_ADDR is required when PROMPTLIB_STORE=redis"))
		}
		if c.RedisPasswordRequired && c.RedisPassword == "" {
			errs = append(errs, errors.New("PROMPTLIB_REDIS_PASSWORD is required when PROMPTLIB_REDIS_PASSWORD_REQUIRED=true"))
		}
	default:
		errs = append(errs, fmt.Errorf("PROMPTLIB_STORE: unknown backend %q (want memory, file, redis or sqlite)", c.StoreType))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.RedisPassword != "" {
		c.RedisPassword = "***REDACTED***"
	}
	if c.RedisUser != "" {
		c.RedisUser = "***REDACTED***"
	}
	return c
}

func defaultHome() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "promptlib")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "promptlib")
	}
	return ".promptlib"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
