package config

import (
	"os"
	"path/filepath"

	"github.com/ekisa-team/lookup-model/internal/envvar"
	"github.com/ekisa-team/lookup-model/internal/xfs"
)

const (
	// DefaultGCSMount is where pipeline runners mount Cloud Storage with GCS FUSE.
	DefaultGCSMount = "/gcs"

	// DefaultUserAgent is sent to Google APIs.
	DefaultUserAgent = "lookup-model"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{Version: "1"}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Registry.Backend == "" {
		c.Registry.Backend = RegistryBackendVertex
	}
	if c.Registry.UserAgent == "" {
		c.Registry.UserAgent = DefaultUserAgent
	}
	if c.Storage.GCSMount == "" {
		c.Storage.GCSMount = DefaultGCSMount
	}
	if c.Storage.DatasetSource == "" {
		c.Storage.DatasetSource = DatasetSourceMount
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// ApplyEnv overrides configuration values with environment variables.
// Precedence:
// 1. Environment variables.
// 2. Values from the config file.
// 3. Defaults.
func (c *Config) ApplyEnv() {
	if p := os.Getenv(envvar.GoogleCloudProject); p != "" {
		c.Registry.Project = p
	}
	if l := os.Getenv(envvar.GoogleCloudRegion); l != "" {
		c.Registry.Location = l
	}
	if m := os.Getenv(envvar.LookupModelGCSMount); m != "" {
		c.Storage.GCSMount = m
	}
	if lvl := os.Getenv(envvar.LookupModelLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}

	c.Registry.CredentialsFile = xfs.ExpandTilde(c.Registry.CredentialsFile)
	c.Registry.Fixture = xfs.ExpandTilde(c.Registry.Fixture)
	c.Logging.File = xfs.ExpandTilde(c.Logging.File)
}

// DefaultConfigPath returns the config file path, honouring LOOKUP_MODEL_CONFIG.
// An empty string means no config file.
func DefaultConfigPath() string {
	if p := os.Getenv(envvar.LookupModelConfig); p != "" {
		return xfs.ExpandTilde(p)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	path := filepath.Join(home, ".config", "lookup-model", "config.yaml")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		path = filepath.Join(xdg, "lookup-model", "config.yaml")
	}
	if !xfs.Exists(path) {
		return ""
	}

	return path
}
