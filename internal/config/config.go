// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"tfadopt/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`

	// AWS contains AWS-specific configuration
	AWS AWSConfig `json:"aws,omitempty"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Root is the root directory for generated files
	Root string `json:"root"`

	// PathPattern controls per-service directory layout.
	// Supports {output}, {provider} and {service} placeholders.
	PathPattern string `json:"path_pattern"`

	// Compact writes all resource types into a single resources file
	Compact bool `json:"compact"`

	// JSON selects the JSON encoding instead of HCL
	JSON bool `json:"json"`

	// NoSort preserves discovery order instead of sorting by (type, name)
	NoSort bool `json:"no_sort"`
}

// AWSConfig contains AWS-specific settings
type AWSConfig struct {
	// Region is the default AWS region
	Region string `json:"region"`

	// Profile is the AWS profile to use
	Profile string `json:"profile,omitempty"`

	// AccessKey is an explicit access key ID (overrides the profile)
	AccessKey string `json:"access_key,omitempty"`

	// SecretKey is an explicit secret access key
	SecretKey string `json:"secret_key,omitempty"`

	// SessionToken is an optional session token
	SessionToken string `json:"session_token,omitempty"`

	// Endpoint overrides the inspection API endpoint (for testing)
	Endpoint string `json:"endpoint,omitempty"`
}

// DefaultPathPattern is the directory layout used when none is configured
const DefaultPathPattern = "{output}/{provider}/{service}"

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Output: OutputConfig{
			Root:        "generated",
			PathPattern: DefaultPathPattern,
		},
		Logging: logging.DefaultConfig(),
		AWS: AWSConfig{
			Region: "us-east-1",
		},
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
