// Package config loads and saves the trellis config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/version"
)

const (
	DefaultBaseURL     = "https://api.trello.com/1"
	DefaultFreshness   = "30s"
	DefaultStalePolicy = "refetch"
	DefaultLogLevel    = "info"
	DefaultLogOutput   = "stderr"
	DefaultSandboxPort = 4040
)

// Environment overrides.
const (
	EnvKey      = "TRELLIS_KEY"
	EnvToken    = "TRELLIS_TOKEN"
	EnvBaseURL  = "TRELLIS_BASE_URL"
	EnvLogLevel = "TRELLIS_LOG_LEVEL"
)

// Config is the on-disk configuration.
type Config struct {
	TrellisSchema string        `toml:"trellis_schema"`
	Editor        string        `toml:"editor,omitempty"`
	Service       ServiceConfig `toml:"service"`
	Cache         CacheConfig   `toml:"cache"`
	Log           LogConfig     `toml:"log"`
	Sandbox       SandboxConfig `toml:"sandbox"`
}

type ServiceConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
	Key     string `toml:"key,omitempty"`
	Token   string `toml:"token,omitempty"`
}

type CacheConfig struct {
	// Freshness is a Go duration string. "0" disables time-based expiry.
	Freshness   string `toml:"freshness,omitempty"`
	StalePolicy string `toml:"stale_policy,omitempty"`
}

type LogConfig struct {
	Level  string `toml:"level,omitempty"`
	Output string `toml:"output,omitempty"`
}

type SandboxConfig struct {
	Port     int    `toml:"port,omitempty"`
	SeedFile string `toml:"seed_file,omitempty"`
	Key      string `toml:"key,omitempty"`
	Token    string `toml:"token,omitempty"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{TrellisSchema: version.CurrentConfigSchema()}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = DefaultBaseURL
	}
	if c.Cache.Freshness == "" {
		c.Cache.Freshness = DefaultFreshness
	}
	if c.Cache.StalePolicy == "" {
		c.Cache.StalePolicy = DefaultStalePolicy
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Output == "" {
		c.Log.Output = DefaultLogOutput
	}
	if c.Sandbox.Port == 0 {
		c.Sandbox.Port = DefaultSandboxPort
	}
}

// FreshnessDuration parses Cache.Freshness.
func (c *Config) FreshnessDuration() (time.Duration, error) {
	if c.Cache.Freshness == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.Freshness)
	if err != nil {
		return 0, &trerr.ConfigurationError{Subject: "cache.freshness", Message: err.Error()}
	}
	if d < 0 {
		return 0, &trerr.ConfigurationError{Subject: "cache.freshness", Message: "must not be negative"}
	}
	return d, nil
}

// HasCredentials reports whether both key and token are set.
func (c *Config) HasCredentials() bool {
	return c.Service.Key != "" && c.Service.Token != ""
}

// RequireCredentials returns a NotInitializedError if credentials are missing.
func (c *Config) RequireCredentials(path string) error {
	if !c.HasCredentials() {
		return &trerr.NotInitializedError{Path: path}
	}
	return nil
}

// ApplyEnv overrides file values from the process environment and from any
// of the given .env files. The process environment wins, then earlier files.
// Missing .env files are skipped.
func (c *Config) ApplyEnv(dotenvPaths ...string) error {
	fromFiles := make(map[string]string)
	for i := len(dotenvPaths) - 1; i >= 0; i-- {
		p := dotenvPaths[i]
		if _, err := os.Stat(p); err != nil {
			continue
		}
		vals, err := godotenv.Read(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		for k, v := range vals {
			fromFiles[k] = v
		}
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fromFiles[key]
	}

	if v := lookup(EnvKey); v != "" {
		c.Service.Key = v
	}
	if v := lookup(EnvToken); v != "" {
		c.Service.Token = v
	}
	if v := lookup(EnvBaseURL); v != "" {
		c.Service.BaseURL = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Store loads and saves a Config.
type Store interface {
	Load() (*Config, error)
	Save(cfg *Config) error
	Path() string
}

// FileStore is a Store backed by a TOML file.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store for the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the config. A missing file loads as defaults.
func (s *FileStore) Load() (*Config, error) {
	if s.path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}

	// Strict version validation (only if file exists)
	if cfg.TrellisSchema == "" {
		return nil, version.MissingConfigSchema(s.path)
	}
	if cfg.TrellisSchema != version.CurrentConfigSchema() {
		return nil, version.InvalidConfigSchema(s.path, cfg.TrellisSchema)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the config, stamping the current schema. The file holds a
// token, so it is only readable by the owner.
func (s *FileStore) Save(cfg *Config) error {
	cfg.TrellisSchema = version.CurrentConfigSchema()

	if s.path == "" {
		return fmt.Errorf("no config path (set %s)", ConfigPathEnvVar)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
