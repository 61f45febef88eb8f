package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string        `yaml:"port"`
	APIBaseURL    string        `yaml:"api_base_url"`
	APITimeout    time.Duration `yaml:"api_timeout"`
	PublicBaseURL string        `yaml:"public_base_url"`
	CachePath     string        `yaml:"cache_path"`
	CookieDomain  string        `yaml:"cookie_domain"`
	CookieSecure  bool          `yaml:"cookie_secure"`
	DemoMode      bool          `yaml:"demo_mode"`

	// StaffPollInterval drives the shared order board; CustomerRefresh is the
	// meta-refresh period of the confirmation page, in seconds.
	StaffPollInterval time.Duration `yaml:"staff_poll_interval"`
	CustomerRefresh   int           `yaml:"customer_refresh_seconds"`

	// Optional service account the background poller authenticates with.
	ServiceUsername string `yaml:"service_username"`
	ServicePassword string `yaml:"service_password"`

	CSRFKey    []byte `yaml:"-"`
	SessionKey []byte `yaml:"-"`
}

// LoadConfig builds the configuration from an optional YAML file (path in
// BARWEB_CONFIG) overridden by environment variables. Everything has a
// development default except the backend URL in production setups.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:              "8585",
		APIBaseURL:        "http://localhost:8090",
		APITimeout:        10 * time.Second,
		PublicBaseURL:     "http://localhost:8585",
		CachePath:         "./barweb.db",
		StaffPollInterval: 10 * time.Second,
		CustomerRefresh:   30,
	}

	if path := os.Getenv("BARWEB_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.APIBaseURL = getEnv("API_BASE_URL", cfg.APIBaseURL)
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", cfg.PublicBaseURL)
	cfg.CachePath = getEnv("CACHE_PATH", cfg.CachePath)
	cfg.CookieDomain = getEnv("COOKIE_DOMAIN", cfg.CookieDomain)
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", cfg.CookieSecure)
	cfg.DemoMode = getEnvBool("DEMO_MODE", cfg.DemoMode)
	cfg.ServiceUsername = getEnv("SERVICE_USERNAME", cfg.ServiceUsername)
	cfg.ServicePassword = getEnv("SERVICE_PASSWORD", cfg.ServicePassword)

	if raw := os.Getenv("API_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
		}
		cfg.APITimeout = d
	}
	if raw := os.Getenv("STAFF_POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid STAFF_POLL_INTERVAL: %w", err)
		}
		cfg.StaffPollInterval = d
	}
	if raw := os.Getenv("CUSTOMER_REFRESH_SECONDS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid CUSTOMER_REFRESH_SECONDS: %q", raw)
		}
		cfg.CustomerRefresh = n
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT, falling back to default", "PORT", cfg.Port)
		cfg.Port = "8585"
	}

	return cfg, nil
}

// loadKey reads a base64 key from the environment, generating a throwaway
// one for development when it is unset or unusable. Generated keys change on
// every restart, which invalidates sessions; set real keys in production.
func loadKey(envVar string) []byte {
	raw := os.Getenv(envVar)
	if raw == "" {
		slog.Warn(envVar+" not set, generating a random key for development. Set it in production.", "var", envVar)
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn(envVar+" is invalid or too short (min 32 bytes), generating a random key for development.", "var", envVar)
		return generateRandomBytes(32)
	}
	return decoded
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		return value == "true" || value == "1"
	}
	return defaultValue
}

// generateRandomBytes generates a random byte slice of specified length
// using crypto/rand.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(fallbackKey) < n {
			paddedKey := make([]byte, n)
			copy(paddedKey, fallbackKey)
			return paddedKey
		}
		return []byte(fallbackKey)[:n]
	}
	return b
}
