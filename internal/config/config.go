package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Env          string `mapstructure:"ENV"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	LogFormat    string `mapstructure:"LOG_FORMAT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	PGHost       string `mapstructure:"PG_HOST"`
	PGPort       string `mapstructure:"PG_PORT"`
	PGDatabase   string `mapstructure:"PG_DB"`
	PGUser       string `mapstructure:"PG_USER"`
	PGPassword   string `mapstructure:"PG_PASSWORD"`
	DBMaxConns   int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns   int32  `mapstructure:"DB_MIN_CONNS"`
	SnapshotPath string `mapstructure:"SNAPSHOT_PATH"`
	BatchSize    int    `mapstructure:"BATCH_SIZE"`
}

var keys = []string{
	"ENV", "LOG_LEVEL", "LOG_FORMAT",
	"DATABASE_URL", "PG_HOST", "PG_PORT", "PG_DB", "PG_USER", "PG_PASSWORD",
	"DB_MAX_CONNS", "DB_MIN_CONNS",
	"SNAPSHOT_PATH", "BATCH_SIZE",
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("PG_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("SNAPSHOT_PATH", "datasus_limpo.parquet")
	v.SetDefault("BATCH_SIZE", 1000)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ConsoleLogs reports whether logs should be human readable instead of JSON.
func (c *Config) ConsoleLogs() bool {
	if c.LogFormat != "" {
		return strings.EqualFold(c.LogFormat, "console")
	}
	return c.IsDev()
}

// DSN returns DATABASE_URL, or a URL assembled from the PG_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.PGHost, c.PGPort),
		Path:   "/" + c.PGDatabase,
	}
	if c.PGPassword != "" {
		u.User = url.UserPassword(c.PGUser, c.PGPassword)
	} else if c.PGUser != "" {
		u.User = url.User(c.PGUser)
	}
	return u.String()
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		if c.PGHost == "" || c.PGDatabase == "" || c.PGUser == "" {
			return fmt.Errorf("DATABASE_URL or PG_HOST, PG_DB and PG_USER must be set")
		}
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1, got %d", c.DBMaxConns)
	}
	return nil
}
