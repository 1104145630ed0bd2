package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	PostgresDSN string // empty = in-memory store (dev mode, nothing survives restart)

	SeedFile          string        // path to the notebook seed catalog (seeds.yaml)
	ReloadInterval    time.Duration // interval to reload seeds.yaml (default: 24h)
	GCInterval        time.Duration // interval to purge expired recommendations (default: 24h)
	GCThreshold       time.Duration // age before a recommendation is purged (0 = freshness window)
	FlushInterval     time.Duration // interval to flush hot engagement counters (default: 1m)
	ModelVersion      string        // label stamped on every recommendation batch
	URLCheckTimeout   time.Duration // timeout for source URL validation (default: 500ms)
	SkipURLValidation bool          // skip source URL validation (useful for dev/local)

	// Redis (optional, empty addr = result cache and hot counters disabled)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NBSCOUT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NBSCOUT_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("NBSCOUT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NBSCOUT_PRETTY_LOG", true),

		// Storage
		PostgresDSN: getenv("NBSCOUT_POSTGRES_DSN", ""),

		// Pipeline settings
		SeedFile:          getenv("NBSCOUT_SEED_FILE", "/app/seeds.yaml"),
		ReloadInterval:    mustDuration("NBSCOUT_RELOAD_INTERVAL", 24*time.Hour),
		GCInterval:        mustDuration("NBSCOUT_GC_INTERVAL", 24*time.Hour),
		GCThreshold:       mustDuration("NBSCOUT_GC_THRESHOLD", 0),
		FlushInterval:     mustDuration("NBSCOUT_FLUSH_INTERVAL", time.Minute),
		ModelVersion:      getenv("NBSCOUT_MODEL_VERSION", "nbscout-v1"),
		URLCheckTimeout:   mustDuration("NBSCOUT_URL_CHECK_TIMEOUT", 500*time.Millisecond),
		SkipURLValidation: mustBool("NBSCOUT_SKIP_URL_VALIDATION", false),

		// Redis settings
		RedisAddr:             getenv("NBSCOUT_REDIS_ADDR", ""),
		RedisUser:             getenv("NBSCOUT_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("NBSCOUT_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("NBSCOUT_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("NBSCOUT_REDIS_DB", 0),
		RedisDT:               mustDuration("NBSCOUT_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("NBSCOUT_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("NBSCOUT_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("NBSCOUT_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("NBSCOUT_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("NBSCOUT_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("NBSCOUT_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("NBSCOUT_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("NBSCOUT_REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: requireEnvSlice("NBSCOUT_ALLOWED_HOSTS"),
		AllowedCIDRS: parseAllowedIPs(getenv("NBSCOUT_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("NBSCOUT_TRUST_PROXY", true),
	}

	// Validate Redis password configuration (only when redis is enabled)
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: NBSCOUT_REDIS_PASSWORD is required when NBSCOUT_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		if cfg.PostgresDSN != "" {
			cfgCopy.PostgresDSN = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvSlice(key string) []string {
	return splitAndTrim(requireEnv(key))
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
