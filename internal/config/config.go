// File path: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edgeport/edgeport/internal/convert"
)

// Config carries the runtime settings of the conversion service. The
// webhook provider table and the dependency version map are injected here
// rather than hardcoded in the generators so alternate sets can be loaded
// under test or per deployment.
type Config struct {
	Addr      string
	Workers   int
	CacheSize int
	Versions  convert.VersionMap
	Providers convert.ProviderTable
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:      ":8080",
		Workers:   4,
		CacheSize: 128,
		Versions:  convert.DefaultVersions(),
		Providers: convert.DefaultProviderTable(),
	}
}

// Load builds the configuration from defaults, the environment, and an
// optional YAML overrides file named by EDGEPORT_OVERRIDES.
func Load() (Config, error) {
	cfg := Default()

	if addr := strings.TrimSpace(os.Getenv("EDGEPORT_ADDR")); addr != "" {
		cfg.Addr = addr
	}
	if raw := strings.TrimSpace(os.Getenv("EDGEPORT_WORKERS")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse EDGEPORT_WORKERS: %w", err)
		}
		cfg.Workers = parsed
	}
	if raw := strings.TrimSpace(os.Getenv("EDGEPORT_CACHE_SIZE")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse EDGEPORT_CACHE_SIZE: %w", err)
		}
		cfg.CacheSize = parsed
	}

	if path := strings.TrimSpace(os.Getenv("EDGEPORT_OVERRIDES")); path != "" {
		if err := cfg.ApplyOverridesFile(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// overridesFile is the YAML shape of an overrides document:
//
//	versions:
//	  express: ^5.0.0
//	providers:
//	  stripe:
//	    signature_header: stripe-signature
//	    runbook_template: ...
type overridesFile struct {
	Versions  map[string]string                  `yaml:"versions"`
	Providers map[string]convert.ProviderProfile `yaml:"providers"`
}

// ApplyOverridesFile overlays version pins and provider profiles from a
// YAML document onto the configuration. Unknown provider keys become new
// table entries; known ones replace the built-in row wholesale.
func (c *Config) ApplyOverridesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read overrides %s: %w", path, err)
	}
	return c.applyOverrides(data)
}

func (c *Config) applyOverrides(data []byte) error {
	var overrides overridesFile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse overrides: %w", err)
	}

	if len(overrides.Versions) > 0 {
		if c.Versions == nil {
			c.Versions = convert.VersionMap{}
		}
		for name, version := range overrides.Versions {
			c.Versions[name] = version
		}
	}
	if len(overrides.Providers) > 0 {
		if c.Providers == nil {
			c.Providers = convert.ProviderTable{}
		}
		for kind, profile := range overrides.Providers {
			c.Providers[convert.WebhookKind(kind)] = profile
		}
	}
	return nil
}
