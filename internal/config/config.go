// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Storage  StorageConfig
	CMS      CMSConfig
	Network  NetworkConfig
	Download DownloadConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string
}

// StorageConfig holds local storage configuration.
type StorageConfig struct {
	// DataDir is the base directory for the cache database.
	DataDir string
	// DownloadDir is the directory for downloaded media files.
	// On Android this maps to the app cache dir, on iOS to the
	// documents dir; the host shell passes the right one in.
	DownloadDir string
}

// CMSConfig holds remote content-management API configuration.
type CMSConfig struct {
	// BaseURL is the root of the CMS content API.
	BaseURL string
	// AssetsURL is the base URL media binaries are served from.
	AssetsURL string
	// Timeout applies to every CMS request (default: 30s).
	Timeout time.Duration
	// UserAgent is sent with every request.
	UserAgent string
}

// NetworkConfig holds reachability probing configuration.
type NetworkConfig struct {
	// ProbeURL is the endpoint used to detect connectivity.
	ProbeURL string
	// ProbeInterval is the time between connectivity probes (default: 30s).
	ProbeInterval time.Duration
}

// DownloadConfig holds media download configuration.
type DownloadConfig struct {
	// Timeout applies to a single media transfer (default: 5m).
	Timeout time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "Log format (pretty, json)")
	dataDir := flag.String("data-dir", "", "Base directory for the cache database")
	downloadDir := flag.String("download-dir", "", "Directory for downloaded media files")
	cmsBaseURL := flag.String("cms-url", "", "Base URL of the CMS content API")
	cmsAssetsURL := flag.String("assets-url", "", "Base URL for media assets")
	cmsTimeout := flag.String("cms-timeout", "", "CMS request timeout (default: 30s)")
	probeURL := flag.String("probe-url", "", "Connectivity probe URL")
	probeInterval := flag.String("probe-interval", "", "Connectivity probe interval (default: 30s)")
	downloadTimeout := flag.String("download-timeout", "", "Media transfer timeout (default: 5m)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(*logFormat, "LOG_FORMAT", ""),
		},
		Storage: StorageConfig{
			DataDir:     getConfigValue(*dataDir, "DATA_DIR", ""),
			DownloadDir: getConfigValue(*downloadDir, "DOWNLOAD_DIR", ""),
		},
		CMS: CMSConfig{
			BaseURL:   getConfigValue(*cmsBaseURL, "CMS_URL", "https://cms.example.com/api/content"),
			AssetsURL: getConfigValue(*cmsAssetsURL, "ASSETS_URL", "https://cms.example.com/api/assets/"),
			UserAgent: getConfigValue("", "CMS_USER_AGENT", "dharma-app"),
		},
		Network: NetworkConfig{
			ProbeURL: getConfigValue(*probeURL, "PROBE_URL", "https://cms.example.com/healthz"),
		},
	}

	var err error
	if cfg.CMS.Timeout, err = parseDurationValue(*cmsTimeout, "CMS_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.Network.ProbeInterval, err = parseDurationValue(*probeInterval, "PROBE_INTERVAL", "30s"); err != nil {
		return nil, err
	}
	if cfg.Download.Timeout, err = parseDurationValue(*downloadTimeout, "DOWNLOAD_TIMEOUT", "5m"); err != nil {
		return nil, err
	}

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

	if c.Storage.DataDir == "" {
		return errors.New("data dir cannot be empty after expansion")
	}
	if c.Storage.DownloadDir == "" {
		return errors.New("download dir cannot be empty after expansion")
	}
	if c.CMS.BaseURL == "" {
		return errors.New("CMS_URL is required")
	}

	return nil
}

// expandStoragePaths expands ~ and makes storage paths absolute, applying defaults.
func (c *Config) expandStoragePaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dataDefault := filepath.Join(homeDir, "dharma", "data")
	if c.Storage.DataDir, err = expandPath(c.Storage.DataDir, dataDefault); err != nil {
		return err
	}

	downloadDefault := filepath.Join(homeDir, "dharma", "downloads")
	if c.Storage.DownloadDir, err = expandPath(c.Storage.DownloadDir, downloadDefault); err != nil {
		return err
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

// parseDurationValue resolves a duration from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
