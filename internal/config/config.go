package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/utils"
)

const (
	StoreTypePostgres = "postgres"
	StoreTypeMemory   = "memory"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Type string `yaml:"type"` // "postgres" or "memory"
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxOpen  int    `yaml:"max_open_conns"`
}

// SessionConfig contains session handling settings
type SessionConfig struct {
	// LoginURL is handed to clients whose session is missing or expired.
	LoginURL string `yaml:"login_url"`
}

// AddonConfig is one selectable add-on tier
type AddonConfig struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
	Rate string `yaml:"rate"`
}

// PricingConfig contains quote settings. Rates are decimal strings.
type PricingConfig struct {
	ServiceFeeRate string        `yaml:"service_fee_rate"`
	TaxRate        string        `yaml:"tax_rate"`
	Addons         []AddonConfig `yaml:"addons"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings (seconds precision, UTC)
type SchedulerConfig struct {
	CompleteBookings string `yaml:"complete_bookings"`
	PurgeSessions    string `yaml:"purge_sessions"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies environment overrides and
// validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("STORE_TYPE"); val != "" {
		c.Store.Type = val
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("SESSION_LOGIN_URL"); val != "" {
		c.Session.LoginURL = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 15
	}

	c.Store.Type = strings.ToLower(c.Store.Type)
	if c.Store.Type == "" {
		c.Store.Type = StoreTypePostgres
	}
	switch c.Store.Type {
	case StoreTypePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	case StoreTypeMemory:
	default:
		return fmt.Errorf("unsupported store type: %s", c.Store.Type)
	}

	if c.Session.LoginURL == "" {
		c.Session.LoginURL = "/login"
	}

	// Pricing defaults
	if c.Pricing.ServiceFeeRate == "" {
		c.Pricing.ServiceFeeRate = utils.DefaultServiceFeeRate.String()
	}
	if c.Pricing.TaxRate == "" {
		c.Pricing.TaxRate = utils.DefaultTaxRate.String()
	}
	if len(c.Pricing.Addons) == 0 {
		c.Pricing.Addons = []AddonConfig{
			{Key: "basic", Name: "Basic Insurance", Rate: "500"},
			{Key: "standard", Name: "Standard Insurance", Rate: "1000"},
			{Key: "premium", Name: "Premium Insurance", Rate: "2000"},
		}
	}
	if _, err := c.PriceRates(); err != nil {
		return err
	}
	if _, err := c.Addons(); err != nil {
		return err
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Scheduler.CompleteBookings == "" {
		c.Scheduler.CompleteBookings = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.PurgeSessions == "" {
		c.Scheduler.PurgeSessions = "0 */15 * * * *" // every 15 minutes
	}

	return nil
}

// PriceRates returns the parsed fee and tax percentages
func (c *Config) PriceRates() (utils.PriceRates, error) {
	fee, err := decimal.NewFromString(c.Pricing.ServiceFeeRate)
	if err != nil || fee.IsNegative() {
		return utils.PriceRates{}, fmt.Errorf("invalid service fee rate: %q", c.Pricing.ServiceFeeRate)
	}
	tax, err := decimal.NewFromString(c.Pricing.TaxRate)
	if err != nil || tax.IsNegative() {
		return utils.PriceRates{}, fmt.Errorf("invalid tax rate: %q", c.Pricing.TaxRate)
	}
	return utils.PriceRates{ServiceFee: fee, Tax: tax}, nil
}

// Addons returns the parsed add-on catalog
func (c *Config) Addons() ([]domain.Addon, error) {
	addons := make([]domain.Addon, 0, len(c.Pricing.Addons))
	seen := make(map[string]bool)
	for _, a := range c.Pricing.Addons {
		key := strings.ToLower(strings.TrimSpace(a.Key))
		if key == "" || key == "none" {
			return nil, fmt.Errorf("add-on key %q is reserved or empty", a.Key)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate add-on key: %s", key)
		}
		seen[key] = true
		rate, err := decimal.NewFromString(a.Rate)
		if err != nil || rate.IsNegative() {
			return nil, fmt.Errorf("invalid rate for add-on %s: %q", key, a.Rate)
		}
		name := a.Name
		if name == "" {
			name = key
		}
		addons = append(addons, domain.Addon{Key: key, Name: name, Rate: rate})
	}
	return addons, nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
