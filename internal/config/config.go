package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	BackendHBase    = "hbase"
	BackendPostgres = "postgres"
)

// Config is the process-wide configuration, built once in main and passed down.
type Config struct {
	HTTP struct {
		Port        string   `yaml:"port" env:"PORT"`
		StaticDir   string   `yaml:"staticDir" env:"STATIC_DIR"`
		CORSOrigins []string `yaml:"corsOrigins" env:"CORS_ORIGINS"`
	} `yaml:"http"`
	Store struct {
		Backend           string `yaml:"backend" env:"STORE_BACKEND"`
		HBaseURL          string `yaml:"hbaseUrl" env:"HBASE_URL"`
		DatabaseURL       string `yaml:"databaseUrl" env:"DATABASE_URL"`
		LocationsTable    string `yaml:"locationsTable" env:"LOCATIONS_TABLE"`
		AvailabilityTable string `yaml:"availabilityTable" env:"AVAILABILITY_TABLE"`
	} `yaml:"store"`
	Display struct {
		TimeZone string `yaml:"timeZone" env:"DISPLAY_TIMEZONE"`
	} `yaml:"display"`
	Admin struct {
		Email             string `yaml:"email" env:"ADMIN_EMAIL"`
		PasswordHash      string `yaml:"passwordHash" env:"ADMIN_PASSWORD_HASH"`
		JWTSecret         string `yaml:"jwtSecret" env:"JWT_SECRET"`
		JWTExpiresMinutes int    `yaml:"jwtExpiresMinutes" env:"JWT_EXPIRES_MINUTES"`
	} `yaml:"admin"`
	Feed struct {
		URL               string `yaml:"url" env:"FEED_URL"`
		LocationID        string `yaml:"locationId" env:"FEED_LOCATION_ID"`
		TotalSpots        int    `yaml:"totalSpots" env:"FEED_TOTAL_SPOTS"`
		Schedule          string `yaml:"schedule" env:"FEED_SCHEDULE"`
		MaxRetries        int    `yaml:"maxRetries" env:"FEED_MAX_RETRIES"`
		RetryDelaySeconds int    `yaml:"retryDelaySeconds" env:"FEED_RETRY_DELAY_SECONDS"`
	} `yaml:"feed"`
	LogLevel string `yaml:"logLevel" env:"LOG_LEVEL"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = "3027"
	cfg.HTTP.StaticDir = "public"
	cfg.Store.Backend = BackendHBase
	cfg.Store.HBaseURL = "http://localhost:8070"
	cfg.Store.LocationsTable = "maurottito_parking_locations"
	cfg.Store.AvailabilityTable = "maurottito_parking_availability"
	cfg.Display.TimeZone = "America/Chicago"
	cfg.Admin.JWTExpiresMinutes = 60
	cfg.Feed.LocationID = "1"
	cfg.Feed.TotalSpots = 12
	cfg.Feed.Schedule = "@every 60s"
	cfg.Feed.MaxRetries = 3
	cfg.Feed.RetryDelaySeconds = 5
	return cfg
}

// Load reads configuration from defaults, file and environment, then applies the
// positional arguments [port] [storeURL] the way the server has always accepted them.
func Load(args []string) (*Config, error) {
	cfg := Default()
	if err := LoadInto(cfg); err != nil {
		return nil, err
	}
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		cfg.HTTP.Port = strings.TrimSpace(args[0])
	}
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		cfg.Store.HBaseURL = strings.TrimSpace(args[1])
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendHBase:
		if _, err := c.HBaseEndpoint(); err != nil {
			return err
		}
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.Admin.JWTSecret != "" && (c.Admin.Email == "" || c.Admin.PasswordHash == "") {
		return errors.New("config: ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required when JWT_SECRET is set")
	}
	if c.Feed.URL != "" && c.Feed.TotalSpots <= 0 {
		return errors.New("config: FEED_TOTAL_SPOTS must be positive")
	}
	return nil
}

// HTTPAddress ensures we always return a host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "3027"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// HBaseEndpoint parses the store URL, defaulting the scheme to http.
func (c *Config) HBaseEndpoint() (*url.URL, error) {
	raw := strings.TrimSpace(c.Store.HBaseURL)
	if raw == "" {
		return nil, errors.New("config: HBASE_URL is empty")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("config: parse HBASE_URL: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("config: HBASE_URL %q has no host", c.Store.HBaseURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// JWTExpiration converts the configured expiry to a duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.Admin.JWTExpiresMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Admin.JWTExpiresMinutes) * time.Minute
}

// FeedRetryDelay is the base delay between occupancy feed attempts.
func (c *Config) FeedRetryDelay() time.Duration {
	if c.Feed.RetryDelaySeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Feed.RetryDelaySeconds) * time.Second
}
