// Package config provides centralized default values for Insightly
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

// loadEnvFile loads environment variables from .env file
func loadEnvFile() {
	envLoaded.Do(func() {
		loadEnvFileOnce()
	})
}

func loadEnvFileOnce() {
	file, err := os.Open(".env")
	if err != nil {
		// .env file is optional, don't error if it doesn't exist
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first = sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Only set if not already set in environment
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// getEnvInt reads environment variable with fallback to default.
// The .env load happens here, not in init(): package-level vars below
// initialize before init() runs, so the getters are the only hook early
// enough for file-provided values to reach them.
func getEnvInt(key string, defaultValue int) int {
	loadEnvFile()
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvString reads environment variable with string fallback
func getEnvString(key string, defaultValue string) string {
	loadEnvFile()
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// Server Configuration
var (
	Port      = getEnvString("PORT", "8080")
	JWTSecret = getEnvString("JWT_SECRET", "")
)

// Storage Configuration
var (
	SQLitePath    = getEnvString("SQLITE_PATH", "db/insightly.db")
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoToken    = getEnvString("TURSO_AUTH_TOKEN", "")
	RedisURL      = getEnvString("REDIS_URL", "redis://localhost:6379/0")
)

// Geo Configuration
var (
	GeoIPPath = getEnvString("GEOIP_DB_PATH", "db/GeoLite2-City.mmdb")
	// Loopback callers are remapped to this address so local testing
	// still resolves to a real location.
	GeoFallbackIP = getEnvString("GEO_FALLBACK_IP", "8.8.8.8")
)

// TTL Configuration
var (
	AnalyticsCacheTTL = time.Duration(getEnvInt("ANALYTICS_CACHE_TTL_MINUTES", 10)) * time.Minute
	ActiveWindow      = time.Duration(getEnvInt("ACTIVE_WINDOW_MINUTES", 5)) * time.Minute
)

// External call timeouts
var (
	ProviderTimeout    = time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 10)) * time.Second
	LinkResolveTimeout = time.Duration(getEnvInt("LINK_RESOLVE_TIMEOUT_SECONDS", 5)) * time.Second
)
