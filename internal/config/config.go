// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Defaults for processing limits.
const (
	DefaultWorkersValue      = 8
	DefaultMaxDepthValue     = 200
	DefaultResultCacheValue  = 256
	DefaultQueryMaxResults   = 1000
	DefaultToolMaxDocuments  = 100
	DefaultToolMaxBytesValue = 2_000_000
)

// Config holds all configuration for the generator and the MCP server.
type Config struct {
	Workers         int    // JSONSKEL_WORKERS, batch generation concurrency
	MaxDepth        int    // JSONSKEL_MAX_DEPTH, document nesting bound (0 = unlimited)
	ResultCacheSize int    // JSONSKEL_RESULT_CACHE, digest-keyed render cache entries
	QueryMaxResults int    // JSONSKEL_QUERY_MAX_RESULTS, cap on jq result values
	ScalarConflicts string // JSONSKEL_SCALAR_CONFLICTS, "last" or "mixed"

	// MCP tool input limits
	ToolMaxDocuments int // JSONSKEL_TOOL_MAX_DOCUMENTS
	ToolMaxBytes     int // JSONSKEL_TOOL_MAX_BYTES, per-document size cap

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Workers:         getEnvInt("JSONSKEL_WORKERS", DefaultWorkersValue),
		MaxDepth:        getEnvInt("JSONSKEL_MAX_DEPTH", DefaultMaxDepthValue),
		ResultCacheSize: getEnvInt("JSONSKEL_RESULT_CACHE", DefaultResultCacheValue),
		QueryMaxResults: getEnvInt("JSONSKEL_QUERY_MAX_RESULTS", DefaultQueryMaxResults),
		ScalarConflicts: getEnvString("JSONSKEL_SCALAR_CONFLICTS", "last"),

		ToolMaxDocuments: getEnvInt("JSONSKEL_TOOL_MAX_DOCUMENTS", DefaultToolMaxDocuments),
		ToolMaxBytes:     getEnvInt("JSONSKEL_TOOL_MAX_BYTES", DefaultToolMaxBytesValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
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
