package config

// RegistryBackend selects the model registry implementation.
type RegistryBackend string

const (
	// RegistryBackendVertex queries the Vertex AI Model Registry.
	RegistryBackendVertex RegistryBackend = "vertex"

	// RegistryBackendFixture serves models from a local YAML fixture.
	RegistryBackendFixture RegistryBackend = "fixture"
)

// DatasetSource selects how training dataset metadata is read.
type DatasetSource string

const (
	// DatasetSourceMount reads from the runner's local storage mount.
	DatasetSourceMount DatasetSource = "mount"

	// DatasetSourceGCS reads the object directly from Cloud Storage.
	DatasetSourceGCS DatasetSource = "gcs"
)

// Config holds the main configuration for the component.
type Config struct {
	Version  string         `json:"version"            yaml:"version"`
	Registry RegistryConfig `json:"registry,omitempty" yaml:"registry,omitempty"`
	Storage  StorageConfig  `json:"storage,omitempty"  yaml:"storage,omitempty"`
	Logging  LoggingConfig  `json:"logging,omitempty"  yaml:"logging,omitempty"`
}

// RegistryConfig holds configuration for the model registry client.
type RegistryConfig struct {
	Backend         RegistryBackend `json:"backend,omitempty"          yaml:"backend,omitempty"`
	Project         string          `json:"project,omitempty"          yaml:"project,omitempty"`
	Location        string          `json:"location,omitempty"         yaml:"location,omitempty"`
	Endpoint        string          `json:"endpoint,omitempty"         yaml:"endpoint,omitempty"`
	CredentialsFile string          `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`
	UserAgent       string          `json:"user_agent,omitempty"       yaml:"user_agent,omitempty"`
	Fixture         string          `json:"fixture,omitempty"          yaml:"fixture,omitempty"`
}

// StorageConfig holds configuration for artifact storage access.
type StorageConfig struct {
	GCSMount      string        `json:"gcs_mount,omitempty"      yaml:"gcs_mount,omitempty"`
	DatasetSource DatasetSource `json:"dataset_source,omitempty" yaml:"dataset_source,omitempty"`
}

// LoggingConfig holds configuration for the logger.
type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty"  yaml:"file,omitempty"`
}
