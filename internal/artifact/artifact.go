package artifact

import (
	"path"
	"strings"
)

const (
	// TrainingDatasetFile holds training dataset metadata next to a model's files.
	TrainingDatasetFile = "training_dataset.json"

	// MetadataResourceName is the metadata key carrying the registry resource name.
	MetadataResourceName = "resourceName"

	// TypeModel is the schema title of a Model artifact.
	TypeModel = "system.Model"
)

const (
	gcsScheme   = "gs://"
	s3Scheme    = "s3://"
	minioScheme = "minio://"
)

// Model is an output model artifact handed back to the pipeline.
type Model struct {
	Name     string         `json:"name,omitempty"`
	URI      string         `json:"uri"`
	Metadata map[string]any `json:"metadata"`

	// GCSMount is the local directory where gs:// URIs are mounted.
	GCSMount string `json:"-"`
}

// NewModel creates an empty model artifact.
func NewModel(name, uri, gcsMount string) *Model {
	return &Model{
		Name:     name,
		URI:      uri,
		Metadata: make(map[string]any),
		GCSMount: gcsMount,
	}
}

// SetMetadata sets a metadata key, allocating the map if needed.
func (m *Model) SetMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// Path returns the local path the pipeline runner exposes for URI.
func (m *Model) Path() string {
	return LocalPath(m.URI, m.GCSMount)
}

// LocalPath maps a remote URI onto the runner's local mounts.
// gs:// maps below gcsMount, s3:// below /s3 and minio:// below /minio.
// Other URIs are returned unchanged.
func LocalPath(uri, gcsMount string) string {
	switch {
	case strings.HasPrefix(uri, gcsScheme):
		if gcsMount == "" {
			gcsMount = "/gcs"
		}
		return path.Join(gcsMount, strings.TrimPrefix(uri, gcsScheme))
	case strings.HasPrefix(uri, s3Scheme):
		return path.Join("/s3", strings.TrimPrefix(uri, s3Scheme))
	case strings.HasPrefix(uri, minioScheme):
		return path.Join("/minio", strings.TrimPrefix(uri, minioScheme))
	default:
		return uri
	}
}

// ParseGCSURI splits gs://bucket/object into bucket and object.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, gcsScheme) {
		return "", "", ErrNotGCSURI
	}

	bucket, object, _ = strings.Cut(strings.TrimPrefix(uri, gcsScheme), "/")
	if bucket == "" {
		return "", "", ErrNotGCSURI
	}

	return bucket, strings.TrimSuffix(object, "/"), nil
}
