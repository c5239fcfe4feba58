// Package config loads and validates the docsite service configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Languages    LanguagesConfig    `yaml:"languages"`
	Store        StoreConfig        `yaml:"store"`
	APIReference APIReferenceConfig `yaml:"api_reference"`
	Server       ServerConfig       `yaml:"server"`
	Cache        CacheConfig        `yaml:"cache"`
	Sync         SyncConfig         `yaml:"sync"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LanguagesConfig declares the content languages served by the site.
type LanguagesConfig struct {
	Default   string   `yaml:"default"`
	Available []string `yaml:"available"`
}

// StoreConfig selects and configures the content store backend.
//
// Backend "github" reads through the GitHub contents API, "git" keeps a local
// clone of the content repository, "dir" serves a plain directory (used for
// local preview and tests).
type StoreConfig struct {
	Backend string `yaml:"backend"`

	// GitHub backend.
	Owner string `yaml:"owner,omitempty"`
	Repo  string `yaml:"repo,omitempty"`
	Ref   string `yaml:"ref,omitempty"`
	Token string `yaml:"token,omitempty"`

	// Git backend.
	URL       string `yaml:"url,omitempty"`
	Branch    string `yaml:"branch,omitempty"`
	Workspace string `yaml:"workspace,omitempty"`

	// Dir backend.
	Dir string `yaml:"dir,omitempty"`
}

// RawBaseURL returns the base URL of the raw-content view of the content
// repository. Relative image and video sources are resolved against it.
func (s StoreConfig) RawBaseURL() string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/", s.Owner, s.Repo, s.Ref)
}

// EditBaseURL returns the base URL for "view source" links.
func (s StoreConfig) EditBaseURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/", s.Owner, s.Repo, s.Ref)
}

// APIReferenceConfig configures the DocFX record directory.
type APIReferenceConfig struct {
	Dir           string `yaml:"dir"`
	RootNamespace string `yaml:"root_namespace"`
	Watch         bool   `yaml:"watch"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// CacheConfig configures the optional sqlite fetch cache layered above the
// store. TTL is a Go duration string; empty or "0" means entries never expire.
type CacheConfig struct {
	Path string `yaml:"path,omitempty"`
	TTL  string `yaml:"ttl,omitempty"`
}

// TTLDuration returns the parsed TTL. Call Validate first; a malformed value
// parses as zero here.
func (c CacheConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// SyncConfig configures scheduled refresh of the git store backend. Interval
// is a Go duration string; empty disables scheduled refresh.
type SyncConfig struct {
	Interval string     `yaml:"interval,omitempty"`
	NATS     NATSConfig `yaml:"nats,omitempty"`
}

// IntervalDuration returns the parsed refresh interval, zero when disabled.
func (s SyncConfig) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(s.Interval)
	return d
}

// NATSConfig configures optional content-update event publishing.
type NATSConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load(".env", ".env.local")

	data, err := os.ReadFile(configPath) // #nosec G304 - path comes from the CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables in the YAML content so tokens can be
	// referenced as ${GITHUB_TOKEN} instead of being committed.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration preloaded with defaults, for callers that
// construct the service without a config file (tests, CLI one-shots).
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Languages.Default == "" {
		c.Languages.Default = "en"
	}
	if len(c.Languages.Available) == 0 {
		c.Languages.Available = []string{"en", "ja"}
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "github"
	}
	if c.Store.Owner == "" {
		c.Store.Owner = "b-editor"
	}
	if c.Store.Repo == "" {
		c.Store.Repo = "beutl-docs"
	}
	if c.Store.Ref == "" {
		c.Store.Ref = "main"
	}
	if c.Store.Branch == "" {
		c.Store.Branch = c.Store.Ref
	}
	if c.Store.Workspace == "" {
		c.Store.Workspace = "./workspace"
	}
	if c.APIReference.Dir == "" {
		c.APIReference.Dir = "./data/api-reference"
	}
	if c.APIReference.RootNamespace == "" {
		c.APIReference.RootNamespace = "Beutl"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Sync.NATS.Subject == "" {
		c.Sync.NATS.Subject = "docsite.updated"
	}
	c.Logging.applyDefaults()
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "github":
		if c.Store.Owner == "" || c.Store.Repo == "" {
			return fmt.Errorf("store: github backend requires owner and repo")
		}
	case "git":
		if c.Store.URL == "" {
			return fmt.Errorf("store: git backend requires url")
		}
	case "dir":
		if c.Store.Dir == "" {
			return fmt.Errorf("store: dir backend requires dir")
		}
	default:
		return fmt.Errorf("store: unknown backend %q", c.Store.Backend)
	}

	if c.Cache.TTL != "" {
		if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
			return fmt.Errorf("cache: invalid ttl %q: %w", c.Cache.TTL, err)
		}
	}
	if c.Sync.Interval != "" {
		if _, err := time.ParseDuration(c.Sync.Interval); err != nil {
			return fmt.Errorf("sync: invalid interval %q: %w", c.Sync.Interval, err)
		}
	}

	if c.Languages.Default == "" {
		return fmt.Errorf("languages: default language must not be empty")
	}
	found := false
	for _, lang := range c.Languages.Available {
		if lang == c.Languages.Default {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("languages: default %q is not in available languages", c.Languages.Default)
	}
	return nil
}
