package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/risk"
)

// EnvPrefix prefixes every environment override, e.g. TJ_SERVER_ADDR.
const EnvPrefix = "TJ"

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig    `json:"server" yaml:"server" envconfig:"SERVER"`
	Store  StoreConfig     `json:"store" yaml:"store" envconfig:"STORE"`
	Risk   risk.Thresholds `json:"risk" yaml:"risk" envconfig:"RISK"`
	Log    LogConfig       `json:"log" yaml:"log" envconfig:"LOG"`
	Stats  StatsConfig     `json:"stats" yaml:"stats" envconfig:"STATS"`
}

// ServerConfig contains HTTP server parameters
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr" envconfig:"ADDR"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	CacheTTL        time.Duration `json:"cache_ttl" yaml:"cache_ttl" envconfig:"CACHE_TTL"`
	CacheMaxCost    int64         `json:"cache_max_cost" yaml:"cache_max_cost" envconfig:"CACHE_MAX_COST"`
	RateLimit       float64       `json:"rate_limit" yaml:"rate_limit" envconfig:"RATE_LIMIT"` // requests per second, 0 disables
	RateBurst       int           `json:"rate_burst" yaml:"rate_burst" envconfig:"RATE_BURST"`
}

// StoreConfig selects the trade repository
type StoreConfig struct {
	Type string `json:"type" yaml:"type" envconfig:"TYPE"` // "memory" or "sqlite"
	Path string `json:"path,omitempty" yaml:"path,omitempty" envconfig:"PATH"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level" envconfig:"LEVEL"`    // debug|info|warn|error
	Format string `json:"format" yaml:"format" envconfig:"FORMAT"` // json|console
}

// StatsConfig contains statistics view defaults
type StatsConfig struct {
	TopSymbols int `json:"top_symbols" yaml:"top_symbols" envconfig:"TOP_SYMBOLS"`
}

// Load builds the configuration from defaults, then the file at path if
// path is not empty, then TJ_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (YAML or JSON), on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, c)
	if err != nil {
		err = json.Unmarshal(data, c)
		if err != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.CacheTTL < 0 {
		return fmt.Errorf("server.cache_ttl must not be negative")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
		return fmt.Errorf("server.rate_burst must be positive when rate_limit is set")
	}
	if c.Store.Type != "memory" && c.Store.Type != "sqlite" {
		return fmt.Errorf("store.type must be 'memory' or 'sqlite'")
	}
	if c.Store.Type == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store.path required for sqlite store")
	}
	if c.Risk.EquityDrop <= 0 || c.Risk.HighExposure <= 0 {
		return fmt.Errorf("risk.equity_drop and risk.high_exposure must be positive")
	}
	if c.Risk.LowWinRate < 0 || c.Risk.LowWinRate > 100 {
		return fmt.Errorf("risk.low_win_rate must be between 0 and 100")
	}
	if c.Risk.MinTradesForWinRate < 0 {
		return fmt.Errorf("risk.min_trades_for_win_rate must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}
	if c.Stats.TopSymbols <= 0 {
		return fmt.Errorf("stats.top_symbols must be positive")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CacheTTL:        time.Minute,
			CacheMaxCost:    1 << 24,
			RateLimit:       50,
			RateBurst:       100,
		},
		Store: StoreConfig{
			Type: "sqlite",
			Path: "./tradejournal.sqlite",
		},
		Risk: risk.DefaultThresholds(),
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Stats: StatsConfig{
			TopSymbols: 7,
		},
	}
}
