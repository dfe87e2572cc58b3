// Package config provides configuration loading from environment variables.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/usestring/falcon-mcp/pkg/client"
)

// Lookup and output defaults
const (
	DefaultLookupWorkersValue    = 4
	DefaultMaxLookupHashesValue  = 50
	DefaultQueryLimitValue       = 100
	DefaultResultCacheItemsValue = 256
	DefaultResourceProcesses     = 200
	DefaultIndexMaxReports       = 10000
)

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("FALCON_API_KEY (or REVERSEIT_APIKEY) is not set")

// Config holds all configuration for the MCP server.
type Config struct {
	APIKey            string        // FALCON_API_KEY, falls back to REVERSEIT_APIKEY
	BaseURL           string        // FALCON_BASE_URL, default client.DefaultBaseURL
	UserAgent         string        // FALCON_USER_AGENT, default client.DefaultUserAgent
	HTTPClientTimeout time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 30000ms

	ResultCacheMaxItems int           // RESULT_CACHE_MAX_ITEMS, default 256 (0 disables the cache)
	ResultCacheTTL      time.Duration // RESULT_CACHE_TTL_MS, default 900000ms (15m)

	LookupWorkers   int // LOOKUP_WORKERS, default 4
	MaxLookupHashes int // MAX_LOOKUP_HASHES, default 50

	DefaultQueryLimit    int // DEFAULT_QUERY_LIMIT, default 100
	ResourceMaxProcesses int // RESOURCE_MAX_PROCESSES, default 200

	IndexMaxReports int // INDEX_MAX_REPORTS, default 10000 (0 disables the indicator index)

	MetricsAddr string // METRICS_ADDR, default "" (disabled)

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		APIKey:            getEnvString("FALCON_API_KEY", os.Getenv("REVERSEIT_APIKEY")),
		BaseURL:           getEnvString("FALCON_BASE_URL", client.DefaultBaseURL),
		UserAgent:         getEnvString("FALCON_USER_AGENT", client.DefaultUserAgent),
		HTTPClientTimeout: getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 30000),

		ResultCacheMaxItems: getEnvInt("RESULT_CACHE_MAX_ITEMS", DefaultResultCacheItemsValue),
		ResultCacheTTL:      getEnvDurationMs("RESULT_CACHE_TTL_MS", 15*60*1000),

		LookupWorkers:   getEnvInt("LOOKUP_WORKERS", DefaultLookupWorkersValue),
		MaxLookupHashes: getEnvInt("MAX_LOOKUP_HASHES", DefaultMaxLookupHashesValue),

		DefaultQueryLimit:    getEnvInt("DEFAULT_QUERY_LIMIT", DefaultQueryLimitValue),
		ResourceMaxProcesses: getEnvInt("RESOURCE_MAX_PROCESSES", DefaultResourceProcesses),

		IndexMaxReports: getEnvInt("INDEX_MAX_REPORTS", DefaultIndexMaxReports),

		MetricsAddr: getEnvString("METRICS_ADDR", ""),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Validate reports configuration that would make every request fail.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// ClientOptions returns the client options implied by the configuration.
// The HTTP client is left to the caller so it can be instrumented.
func (c *Config) ClientOptions() []client.Option {
	return []client.Option{
		client.WithBaseURL(c.BaseURL),
		client.WithUserAgent(c.UserAgent),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
