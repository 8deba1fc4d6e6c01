package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Validity   ValidityConfig   `yaml:"validity"`
	Revocation RevocationConfig `yaml:"revocation"`
	Audit      AuditConfig      `yaml:"audit"`
	Admin      AdminConfig      `yaml:"admin"`
}

type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// StaticDir is an optional directory of protected pages to serve.
	// The pages themselves are plain files; access gating happens through
	// the /validate contract consumed by their scripts.
	StaticDir string `yaml:"static_dir"`
}

// UpstreamConfig selects and configures the identity verifier.
type UpstreamConfig struct {
	Type   string         `yaml:"type"`    // e.g., "graphql", "static"
	Config map[string]any `yaml:",inline"` // Capture remaining fields
}

type ValidityConfig struct {
	// Window is how long an accepted credential stays in the validity
	// cache, independent of the credential's own exp claim.
	Window time.Duration `yaml:"window"`

	// SweepInterval is how often expired cache records are swept into the
	// revocation set.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type RevocationConfig struct {
	// Path is the JSON file holding revoked credential fingerprints.
	// Empty keeps revocations in memory only.
	Path string `yaml:"path"`
}

// AuditConfig holds configuration for the decision audit trail.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type"` // e.g., "file", "memory"
	Path    string `yaml:"path"`
}

type AdminConfig struct {
	// SigningKey verifies the HS256 bearer tokens of admin API callers.
	SigningKey string `yaml:"signing_key"`
}

// Load reads and parses the configuration file at the given path and
// applies defaults. It returns an error if reading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

// Default returns a configuration with all defaults applied, used when no
// config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	// without a config file there is no endpoint to verify against, so
	// default to the self-asserting verifier
	if c.Upstream.Type == "" {
		c.Upstream.Type = "static"
	}
	if c.Validity.Window <= 0 {
		c.Validity.Window = time.Hour
	}
	if c.Validity.SweepInterval <= 0 {
		c.Validity.SweepInterval = time.Hour
	}
	if c.Audit.Type == "" {
		c.Audit.Type = "memory"
	}
}

func (c *Config) Validate() error {
	if c.Validity.Window <= 0 {
		return fmt.Errorf("validity window must be positive")
	}
	if c.Validity.SweepInterval <= 0 {
		return fmt.Errorf("validity sweep_interval must be positive")
	}
	switch c.Audit.Type {
	case "memory", "noop":
	case "file":
		if c.Audit.Path == "" {
			return fmt.Errorf("audit type 'file' requires a path")
		}
	default:
		return fmt.Errorf("unknown audit type '%s'", c.Audit.Type)
	}
	return nil
}
