// Package config loads riseflow settings from a YAML (or JSON) file and
// RISEFLOW_* environment variables. Flags are applied by the CLI on top.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. A missing file is fine.
const DefaultPath = "riseflow.yaml"

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

type Config struct {
	// Flow optionally replaces the shipped RISE flow with a YAML/JSON definition.
	Flow      string      `yaml:"flow" json:"flow"`
	ShareBase string      `yaml:"share_base" json:"share_base"`
	MaxInput  int         `yaml:"max_input_size" json:"max_input_size"`
	Store     StoreConfig `yaml:"store" json:"store"`
	HTTP      HTTPConfig  `yaml:"http" json:"http"`
	Log       LogConfig   `yaml:"log" json:"log"`
}

type StoreConfig struct {
	Backend string      `yaml:"backend" json:"backend"`
	Dir     string      `yaml:"dir" json:"dir"`
	Redis   RedisConfig `yaml:"redis" json:"redis"`
	// EncryptionKey is a base64 AES-256 key. Empty disables encryption at rest.
	EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
	// PIIKeys are regular expressions over store keys whose values are never
	// written, e.g. `rise:q$` for the free-text search box.
	PIIKeys []string `yaml:"pii_keys" json:"pii_keys"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
	Lock     bool          `yaml:"lock" json:"lock"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // text or json
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ShareBase: "https://rise.local/",
		MaxInput:  4096,
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     filepath.Join(".riseflow", "state"),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "riseflow:",
			},
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults, then applies the environment.
// A missing file yields the defaults unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := parse(path, data, &cfg); err != nil {
			return Config{}, err
		}
	case os.IsNotExist(err) && !required:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func parse(path string, data []byte, cfg *Config) error {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from RISEFLOW_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("RISEFLOW_FLOW", &c.Flow)
	str("RISEFLOW_SHARE_BASE", &c.ShareBase)
	str("RISEFLOW_STORE", &c.Store.Backend)
	str("RISEFLOW_STORE_DIR", &c.Store.Dir)
	str("RISEFLOW_ENCRYPTION_KEY", &c.Store.EncryptionKey)
	str("RISEFLOW_REDIS_ADDR", &c.Store.Redis.Addr)
	str("RISEFLOW_REDIS_PASSWORD", &c.Store.Redis.Password)
	str("RISEFLOW_REDIS_PREFIX", &c.Store.Redis.Prefix)
	str("RISEFLOW_HTTP_ADDR", &c.HTTP.Addr)
	str("RISEFLOW_LOG_LEVEL", &c.Log.Level)
	str("RISEFLOW_LOG_FORMAT", &c.Log.Format)

	if v := getenv("RISEFLOW_PII_KEYS"); v != "" {
		c.Store.PIIKeys = strings.Split(v, ",")
	}
	if v := getenv("RISEFLOW_MAX_INPUT_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RISEFLOW_MAX_INPUT_SIZE: %w", err)
		}
		c.MaxInput = n
	}
	if v := getenv("RISEFLOW_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RISEFLOW_REDIS_DB: %w", err)
		}
		c.Store.Redis.DB = n
	}
	if v := getenv("RISEFLOW_REDIS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RISEFLOW_REDIS_TTL: %w", err)
		}
		c.Store.Redis.TTL = d
	}
	if v := getenv("RISEFLOW_REDIS_LOCK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RISEFLOW_REDIS_LOCK: %w", err)
		}
		c.Store.Redis.Lock = b
	}
	return nil
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalid, c.Store.Backend)
	}
	if _, err := c.EncryptionKey(); err != nil {
		return err
	}
	for _, p := range c.Store.PIIKeys {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: pii_keys: %v", ErrInvalid, err)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format must be text or json", ErrInvalid)
	}
	if c.MaxInput < 0 {
		return fmt.Errorf("%w: max_input_size must not be negative", ErrInvalid)
	}
	return nil
}

// EncryptionKey decodes the configured key. It returns nil when unset.
func (c Config) EncryptionKey() ([]byte, error) {
	if c.Store.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.Store.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: encryption_key is not base64: %v", ErrInvalid, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: encryption_key must decode to 32 bytes, got %d", ErrInvalid, len(key))
	}
	return key, nil
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
	return l, nil
}
