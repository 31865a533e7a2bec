package registry

import (
	"context"
	"fmt"
	"strings"
)

// Model is a read-only view of a model record held by the registry.
type Model struct {
	ResourceName string `json:"resource_name" yaml:"resource_name"`
	DisplayName  string `json:"display_name"  yaml:"display_name"`
	URI          string `json:"uri"           yaml:"uri"`
	Location     string `json:"location"      yaml:"location"`
	VersionID    string `json:"version_id"    yaml:"version_id,omitempty"`
}

// Registry lists models by display name.
type Registry interface {
	// ListModels returns every model in project/location whose display name
	// equals displayName exactly.
	ListModels(ctx context.Context, project, location, displayName string) ([]*Model, error)

	// Close releases the underlying client.
	Close() error
}

// ParentName returns the collection parent for project and location.
func ParentName(project, location string) string {
	return fmt.Sprintf("projects/%s/locations/%s", project, location)
}

// ModelName identifies a model resource.
type ModelName struct {
	Project  string
	Location string
	ID       string
}

// String returns the full resource name.
func (n ModelName) String() string {
	return ParentName(n.Project, n.Location) + "/models/" + n.ID
}

// ParseModelName parses projects/<p>/locations/<l>/models/<id>.
// A trailing @version suffix on the id is dropped.
func ParseModelName(resource string) (ModelName, error) {
	parts := strings.Split(resource, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "locations" || parts[4] != "models" {
		return ModelName{}, fmt.Errorf("%w: %q", ErrInvalidResourceName, resource)
	}

	id, _, _ := strings.Cut(parts[5], "@")
	if parts[1] == "" || parts[3] == "" || id == "" {
		return ModelName{}, fmt.Errorf("%w: %q", ErrInvalidResourceName, resource)
	}

	return ModelName{Project: parts[1], Location: parts[3], ID: id}, nil
}

// DisplayNameFilter builds a list filter matching displayName exactly.
func DisplayNameFilter(displayName string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(displayName)
	return fmt.Sprintf(`display_name="%s"`, escaped)
}
