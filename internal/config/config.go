// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Auth    AuthConfig
	Upload  UploadConfig
	Metrics MetricsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds filesystem locations.
type StorageConfig struct {
	DataPath     string // Base directory (default: ~/PartyDeck)
	DatabasePath string // SQLite file (default: {data}/partydeck.db)
	UploadPath   string // Uploaded images (default: {data}/uploads)
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed origins (default: *)

	// TrustedProxies are the peers whose X-Forwarded-For / X-Real-IP headers
	// are believed. Empty means the TCP peer is always the client.
	TrustedProxies []netip.Prefix
}

// AuthConfig holds admin authentication configuration.
type AuthConfig struct {
	TokenTTL               time.Duration
	MaxLoginAttempts       int
	LoginWindow            time.Duration
	SessionCleanupInterval time.Duration

	// Bootstrap credentials, inserted only when no admin exists.
	DefaultAdminUsername string
	DefaultAdminPassword string

	// In-memory token bucket in front of the login route.
	LoginRatePerMinute int
	LoginRateBurst     int
}

// UploadConfig holds image upload limits.
type UploadConfig struct {
	MaxSize int64
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig with explicit command-line arguments.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("partydeck", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for data storage")
	databasePath := fs.String("db", "", "Path to the SQLite database")
	uploadPath := fs.String("upload-path", "", "Directory for uploaded images")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed origins (default: *)")
	trustedProxies := fs.String("trusted-proxies", "", "Comma separated proxy IPs or CIDRs allowed to set X-Forwarded-For")

	// Auth flags
	tokenTTL := fs.String("token-ttl", "", "Admin session lifetime (default: 24h)")
	maxLoginAttempts := fs.String("max-login-attempts", "", "Failed logins allowed per window (default: 5)")
	loginWindow := fs.String("login-window", "", "Failed login window (default: 15m)")

	metricsEnabled := fs.String("metrics", "", "Expose /metrics (default: true)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataPath:     getConfigValue(*dataPath, "DATA_PATH", ""),
			DatabasePath: getConfigValue(*databasePath, "DATABASE_PATH", ""),
			UploadPath:   getConfigValue(*uploadPath, "UPLOAD_PATH", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			MaxLoginAttempts:     getIntConfigValue(*maxLoginAttempts, "MAX_LOGIN_ATTEMPTS", 5),
			DefaultAdminUsername: getConfigValue("", "DEFAULT_ADMIN_USERNAME", "admin"),
			DefaultAdminPassword: getConfigValue("", "DEFAULT_ADMIN_PASSWORD", "admin123"),
			LoginRatePerMinute:   getIntConfigValue("", "LOGIN_RATE_PER_MINUTE", 20),
			LoginRateBurst:       getIntConfigValue("", "LOGIN_RATE_BURST", 10),
		},
		Upload: UploadConfig{
			MaxSize: int64(getIntConfigValue("", "MAX_UPLOAD_SIZE", 5*1024*1024)),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolConfigValue(*metricsEnabled, "METRICS_ENABLED", true),
		},
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dst       *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*tokenTTL, "TOKEN_TTL", "24h", &cfg.Auth.TokenTTL},
		{*loginWindow, "LOGIN_WINDOW", "15m", &cfg.Auth.LoginWindow},
		{"", "SESSION_CLEANUP_INTERVAL", "1h", &cfg.Auth.SessionCleanupInterval},
	}
	for _, d := range durations {
		v, err := getDurationConfigValue(d.flagValue, d.envKey, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	proxies, err := parsePrefixes(getConfigValue(*trustedProxies, "TRUSTED_PROXIES", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	cfg.Server.TrustedProxies = proxies

	if err := cfg.expandStoragePaths(); err != nil {
		return nil, fmt.Errorf("invalid storage path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.DatabasePath == "" {
		return errors.New("database path cannot be empty after expansion")
	}
	if c.Storage.UploadPath == "" {
		return errors.New("upload path cannot be empty after expansion")
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Auth.MaxLoginAttempts < 1 {
		return errors.New("MAX_LOGIN_ATTEMPTS must be at least 1")
	}
	if c.Auth.DefaultAdminUsername == "" || c.Auth.DefaultAdminPassword == "" {
		return errors.New("default admin credentials cannot be empty")
	}

	if c.Upload.MaxSize <= 0 {
		return errors.New("MAX_UPLOAD_SIZE must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandStoragePaths resolves the data directory first; the database and
// upload locations default to children of it.
func (c *Config) expandStoragePaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dataPath, err := expandPath(c.Storage.DataPath, filepath.Join(homeDir, "PartyDeck"))
	if err != nil {
		return err
	}
	c.Storage.DataPath = dataPath

	dbPath, err := expandPath(c.Storage.DatabasePath, filepath.Join(dataPath, "partydeck.db"))
	if err != nil {
		return err
	}
	c.Storage.DatabasePath = dbPath

	uploadPath, err := expandPath(c.Storage.UploadPath, filepath.Join(dataPath, "uploads"))
	if err != nil {
		return err
	}
	c.Storage.UploadPath = uploadPath
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue parses a Go duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePrefixes reads "10.0.0.0/8, 127.0.0.1" style lists. A bare address
// becomes a single-host prefix.
func parsePrefixes(s string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range splitList(s) {
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, err
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// loadEnvFile loads environment variables from a .env file.
// Variables already present in the environment are left untouched.
func loadEnvFile(path string) error {
	return godotenv.Load(path)
}
