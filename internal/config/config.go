package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultPath is used when CONFIG_PATH is not set
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		GRPCAddr string `yaml:"grpc_addr"`
		HTTPAddr string `yaml:"http_addr"`
		APIToken string `yaml:"api_token"`
	} `yaml:"server"`
	Database struct {
		Driver     string `yaml:"driver"`
		ConnStr    string `yaml:"conn_str"`
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Name       string `yaml:"name"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Price struct {
		BaseURL    string        `yaml:"base_url"`
		CoinID     string        `yaml:"coin_id"`
		VsCurrency string        `yaml:"vs_currency"`
		MinGap     time.Duration `yaml:"min_gap"`
	} `yaml:"price"`
	News struct {
		FeedURL    string        `yaml:"feed_url"`
		Keywords   []string      `yaml:"keywords"`
		MaxItems   int           `yaml:"max_items"`
		CacheTTL   time.Duration `yaml:"cache_ttl"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"news"`
	Schedule struct {
		PriceCron  string `yaml:"price_cron"`
		NewsCron   string `yaml:"news_cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Ledger struct {
		RejectOverSell bool   `yaml:"reject_over_sell"`
		SeedFile       string `yaml:"seed_file"`
	} `yaml:"ledger"`
	// Location is the IANA zone used for daily series boundaries; empty means the host zone
	Location string `yaml:"location"`
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Keys absent from the file keep these values
	cfg.Ledger.RejectOverSell = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrides := []struct {
		key    string
		target *string
	}{
		{"API_TOKEN", &c.Server.APIToken},
		{"GRPC_ADDR", &c.Server.GRPCAddr},
		{"HTTP_ADDR", &c.Server.HTTPAddr},
		{"DB_DRIVER", &c.Database.Driver},
		{"DB_CONN_STR", &c.Database.ConnStr},
		{"DB_HOST", &c.Database.Host},
		{"DB_PORT", &c.Database.Port},
		{"DB_USER", &c.Database.User},
		{"DB_PASSWORD", &c.Database.Password},
		{"DB_NAME", &c.Database.Name},
		{"SQLITE_PATH", &c.Database.SQLitePath},
		{"PRICE_BASE_URL", &c.Price.BaseURL},
		{"NEWS_FEED_URL", &c.News.FeedURL},
		{"PRICE_CRON", &c.Schedule.PriceCron},
		{"NEWS_CRON", &c.Schedule.NewsCron},
		{"TZ_LOCATION", &c.Location},
		{"SEED_FILE", &c.Ledger.SeedFile},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.target = v
		}
	}

	bools := []struct {
		key    string
		target *bool
	}{
		{"RUN_ON_START", &c.Schedule.RunOnStart},
		{"REJECT_OVER_SELL", &c.Ledger.RejectOverSell},
	}
	for _, o := range bools {
		v := os.Getenv(o.key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", o.key, err)
		}
		*o.target = b
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = ":8080"
	}
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8081"
	}
	if c.Server.APIToken == "" {
		c.Server.APIToken = "dev-token"
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == "" {
		c.Database.Port = "5432"
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.Password == "" {
		c.Database.Password = "postgres"
	}
	if c.Database.Name == "" {
		c.Database.Name = "ethfolio"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/ethfolio.db"
	}

	if c.Price.CoinID == "" {
		c.Price.CoinID = "ethereum"
	}
	if c.Price.VsCurrency == "" {
		c.Price.VsCurrency = "usd"
	}

	if c.Schedule.PriceCron == "" {
		c.Schedule.PriceCron = "@every 1m"
	}
	if c.Schedule.NewsCron == "" {
		c.Schedule.NewsCron = "@every 30m"
	}
}

// PostgresConnStr returns DB_CONN_STR when set, otherwise builds one from the individual fields
func (c *Config) PostgresConnStr() string {
	if c.Database.ConnStr != "" {
		return c.Database.ConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
}

// TimeLocation resolves Location, falling back to the host zone
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("location %q: %w", c.Location, err)
	}
	return loc, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("database.driver must be one of %s, %s, %s; got %q",
			DriverSQLite, DriverPostgres, DriverMemory, c.Database.Driver)
	}
	if c.Server.GRPCAddr == c.Server.HTTPAddr {
		return fmt.Errorf("server.grpc_addr and server.http_addr must differ")
	}
	if c.Price.MinGap < 0 {
		return fmt.Errorf("price.min_gap must not be negative")
	}
	if c.News.MaxItems < 0 {
		return fmt.Errorf("news.max_items must not be negative")
	}
	if c.News.CacheTTL < 0 || c.News.RetryDelay < 0 {
		return fmt.Errorf("news durations must not be negative")
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	return nil
}
