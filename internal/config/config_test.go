package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.GRPCAddr)
	assert.Equal(t, ":8081", cfg.Server.HTTPAddr)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/ethfolio.db", cfg.Database.SQLitePath)
	assert.Equal(t, "ethereum", cfg.Price.CoinID)
	assert.Equal(t, "@every 1m", cfg.Schedule.PriceCron)
	assert.Equal(t, "@every 30m", cfg.Schedule.NewsCron)
	assert.False(t, cfg.Schedule.RunOnStart)
	assert.True(t, cfg.Ledger.RejectOverSell)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverSellGuard(t *testing.T) {
	cfg, err := Load(writeConfig(t, "ledger:\n  seed_file: seed.yaml\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Ledger.RejectOverSell, "omitted key keeps the guard on")

	cfg, err = Load(writeConfig(t, "ledger:\n  reject_over_sell: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Ledger.RejectOverSell)

	t.Setenv("REJECT_OVER_SELL", "true")
	cfg, err = Load(writeConfig(t, "ledger:\n  reject_over_sell: false\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Ledger.RejectOverSell)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  grpc_addr: ":9000"
  api_token: "from-file"
database:
  driver: postgres
  name: folio
price:
  min_gap: 30s
news:
  keywords: ["eth"]
  max_items: 3
  cache_ttl: 10m
schedule:
  run_on_start: true
ledger:
  reject_over_sell: true
location: UTC
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.GRPCAddr)
	assert.Equal(t, "from-file", cfg.Server.APIToken)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.Price.MinGap)
	assert.Equal(t, []string{"eth"}, cfg.News.Keywords)
	assert.Equal(t, 3, cfg.News.MaxItems)
	assert.Equal(t, 10*time.Minute, cfg.News.CacheTTL)
	assert.True(t, cfg.Schedule.RunOnStart)
	assert.True(t, cfg.Ledger.RejectOverSell)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=folio sslmode=disable",
		cfg.PostgresConnStr())

	loc, err := cfg.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  api_token: from-file\n")
	t.Setenv("API_TOKEN", "from-env")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DB_CONN_STR", "postgres://u:p@db/x")
	t.Setenv("PRICE_BASE_URL", "http://localhost:9999")
	t.Setenv("RUN_ON_START", "true")
	t.Setenv("SEED_FILE", "seed/history.yaml")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Server.APIToken)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@db/x", cfg.PostgresConnStr())
	assert.Equal(t, "http://localhost:9999", cfg.Price.BaseURL)
	assert.True(t, cfg.Schedule.RunOnStart)
	assert.Equal(t, "seed/history.yaml", cfg.Ledger.SeedFile)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.ErrorContains(t, err, "parse config")

	t.Setenv("RUN_ON_START", "maybe")
	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "RUN_ON_START")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "database.driver"},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database.SQLitePath = "" }, wantErr: "sqlite_path"},
		{name: "same addresses", mutate: func(c *Config) { c.Server.HTTPAddr = c.Server.GRPCAddr }, wantErr: "must differ"},
		{name: "negative max items", mutate: func(c *Config) { c.News.MaxItems = -1 }, wantErr: "max_items"},
		{name: "bad location", mutate: func(c *Config) { c.Location = "Mars/Olympus" }, wantErr: "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
