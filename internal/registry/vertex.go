package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/status"
)

// VertexOptions configures the Vertex AI Model Registry client.
type VertexOptions struct {
	// Endpoint overrides the regional endpoint for every location.
	Endpoint string

	// CredentialsFile is a service account key. Empty uses application default credentials.
	CredentialsFile string

	// UserAgent is appended to the client's user agent.
	UserAgent string
}

// Vertex lists models from the Vertex AI Model Registry.
// One gRPC client is kept per location since the API is served from regional endpoints.
type Vertex struct {
	opts    VertexOptions
	extra   []option.ClientOption
	clients map[string]*aiplatform.ModelClient
	mu      sync.Mutex
}

// NewVertex creates a Vertex registry. Clients are dialed on first use.
// Extra client options are appended after the ones derived from opts.
func NewVertex(opts VertexOptions, extra ...option.ClientOption) *Vertex {
	return &Vertex{
		opts:    opts,
		extra:   extra,
		clients: make(map[string]*aiplatform.ModelClient),
	}
}

// Endpoint returns the API endpoint used for location.
func (v *Vertex) Endpoint(location string) string {
	if v.opts.Endpoint != "" {
		return v.opts.Endpoint
	}
	if location == "global" {
		return "aiplatform.googleapis.com:443"
	}

	return fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)
}

// ListModels lists models whose display name equals displayName.
func (v *Vertex) ListModels(ctx context.Context, project, location, displayName string) ([]*Model, error) {
	if project == "" || location == "" {
		return nil, ErrMissingScope
	}

	client, err := v.client(ctx, location)
	if err != nil {
		return nil, err
	}

	req := &aiplatformpb.ListModelsRequest{
		Parent: ParentName(project, location),
		Filter: DisplayNameFilter(displayName),
	}

	slog.Debug("Listing models", "parent", req.Parent, "filter", req.Filter)

	var models []*Model
	it := client.ListModels(ctx, req)
	for {
		m, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			slog.Error("Failed to list models", "parent", req.Parent, "code", status.Code(err).String(), "error", err)
			return nil, fmt.Errorf("registry: failed to list models in %s: %w", req.Parent, err)
		}

		models = append(models, fromProto(m, location))
	}

	return models, nil
}

// Close closes every client opened so far.
func (v *Vertex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	var errs []error
	for location, client := range v.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("registry: failed to close client for %s: %w", location, err))
		}
		delete(v.clients, location)
	}

	return errors.Join(errs...)
}

// client returns the model client for location, creating it if needed.
func (v *Vertex) client(ctx context.Context, location string) (*aiplatform.ModelClient, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if client, ok := v.clients[location]; ok {
		return client, nil
	}

	opts := []option.ClientOption{option.WithEndpoint(v.Endpoint(location))}
	if v.opts.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(v.opts.CredentialsFile))
	}
	if v.opts.UserAgent != "" {
		opts = append(opts, option.WithUserAgent(v.opts.UserAgent))
	}
	opts = append(opts, v.extra...)

	client, err := aiplatform.NewModelClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to create model client for %s: %w", location, err)
	}

	v.clients[location] = client
	slog.Debug("Model client created", "location", location, "endpoint", v.Endpoint(location))

	return client, nil
}

// fromProto converts an API model into a registry Model.
func fromProto(m *aiplatformpb.Model, location string) *Model {
	model := &Model{
		ResourceName: m.GetName(),
		DisplayName:  m.GetDisplayName(),
		URI:          m.GetArtifactUri(),
		VersionID:    m.GetVersionId(),
		Location:     location,
	}

	if name, err := ParseModelName(m.GetName()); err == nil {
		model.Location = name.Location
	}

	return model
}
