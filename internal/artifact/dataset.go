package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"syscall"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// DatasetReader reads the training dataset metadata stored with a model.
// Found is false when no metadata file exists; the returned map is then empty.
type DatasetReader interface {
	ReadTrainingDataset(ctx context.Context, model *Model) (dataset map[string]any, found bool, err error)
}

// MountReader reads training_dataset.json from the artifact's local path.
type MountReader struct{}

// ReadTrainingDataset reads <model.Path()>/training_dataset.json.
func (MountReader) ReadTrainingDataset(_ context.Context, model *Model) (map[string]any, bool, error) {
	p := filepath.Join(model.Path(), TrainingDatasetFile)
	slog.Info("Reading training dataset metadata", "path", p)

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return map[string]any{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("artifact: failed to read %s: %w", p, err)
	}

	dataset, err := DecodeDataset(data)
	if err != nil {
		return nil, false, fmt.Errorf("artifact: %s: %w", p, err)
	}

	return dataset, true, nil
}

// GCSReader reads training_dataset.json straight from Cloud Storage,
// for runners that do not mount buckets locally.
type GCSReader struct {
	client *storage.Client
}

// NewGCSReader creates a GCSReader.
func NewGCSReader(ctx context.Context, credentialsFile string, extra ...option.ClientOption) (*GCSReader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, extra...)

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("artifact: failed to create GCS storage client: %w", err)
	}

	return &GCSReader{client: client}, nil
}

// ReadTrainingDataset reads gs://<bucket>/<object>/training_dataset.json.
func (r *GCSReader) ReadTrainingDataset(ctx context.Context, model *Model) (map[string]any, bool, error) {
	bucket, object, err := ParseGCSURI(model.URI)
	if err != nil {
		return nil, false, fmt.Errorf("artifact: %q: %w", model.URI, err)
	}

	object = path.Join(object, TrainingDatasetFile)
	slog.Info("Reading training dataset metadata", "bucket", bucket, "object", object)

	rc, err := r.client.Bucket(bucket).Object(object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return map[string]any{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("artifact: failed to open gs://%s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("artifact: failed to read gs://%s/%s: %w", bucket, object, err)
	}

	dataset, err := DecodeDataset(data)
	if err != nil {
		return nil, false, fmt.Errorf("artifact: gs://%s/%s: %w", bucket, object, err)
	}

	return dataset, true, nil
}

// Close closes the storage client.
func (r *GCSReader) Close() error {
	return r.client.Close()
}

// DecodeDataset parses data as a single JSON object.
// Numbers are kept as json.Number so large integers survive unchanged.
func DecodeDataset(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidDataset)
	}

	dataset, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidDataset, raw)
	}

	return dataset, nil
}
