package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalPath(t *testing.T) {
	tests := []struct {
		uri      string
		gcsMount string
		want     string
	}{
		{"gs://bucket/model", "/gcs", "/gcs/bucket/model"},
		{"gs://bucket/model/", "/gcs", "/gcs/bucket/model"},
		{"gs://bucket/model", "/mnt/fuse", "/mnt/fuse/bucket/model"},
		{"gs://bucket/model", "", "/gcs/bucket/model"},
		{"s3://bucket/model", "/gcs", "/s3/bucket/model"},
		{"minio://bucket/model", "/gcs", "/minio/bucket/model"},
		{"/local/model", "/gcs", "/local/model"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LocalPath(tt.uri, tt.gcsMount), tt.uri)
	}
}

func TestModel_PathFollowsURI(t *testing.T) {
	m := NewModel("model", "", "/gcs")
	m.URI = "gs://bucket/model"

	assert.Equal(t, "/gcs/bucket/model", m.Path())
}

func TestModel_SetMetadata(t *testing.T) {
	m := &Model{}
	m.SetMetadata(MetadataResourceName, "models/123")

	assert.Equal(t, map[string]any{"resourceName": "models/123"}, m.Metadata)
}

func TestParseGCSURI(t *testing.T) {
	bucket, object, err := ParseGCSURI("gs://bucket/path/to/model/")
	assert.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "path/to/model", object)

	bucket, object, err = ParseGCSURI("gs://bucket")
	assert.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Empty(t, object)

	for _, uri := range []string{"", "s3://bucket/x", "gs://", "/gcs/bucket/x"} {
		_, _, err := ParseGCSURI(uri)
		assert.ErrorIs(t, err, ErrNotGCSURI, uri)
	}
}
