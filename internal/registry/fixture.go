package registry

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.yaml.in/yaml/v3"
)

// fixtureFile is the on-disk layout of a fixture registry.
type fixtureFile struct {
	Models []Model `yaml:"models"`
}

// Fixture is an in-memory registry used for offline runs and tests.
type Fixture struct {
	models map[string]*Model
	mu     sync.RWMutex
}

// NewFixture creates an empty fixture registry.
func NewFixture() *Fixture {
	return &Fixture{
		models: make(map[string]*Model),
	}
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to read fixture: %w", err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("registry: invalid fixture YAML: %w", err)
	}

	f := NewFixture()
	for i := range file.Models {
		if err := f.Add(&file.Models[i]); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Add registers a model. The resource name must be unique and well formed.
func (f *Fixture) Add(model *Model) error {
	name, err := ParseModelName(model.ResourceName)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.models[model.ResourceName]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModel, model.ResourceName)
	}

	stored := *model
	stored.Location = name.Location
	f.models[model.ResourceName] = &stored

	return nil
}

// get returns the model with the given resource name.
func (f *Fixture) get(resourceName string) (*Model, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	model, ok := f.models[resourceName]
	return model, ok
}

// ListModels returns copies of the matching models ordered by resource name.
func (f *Fixture) ListModels(ctx context.Context, project, location, displayName string) ([]*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if project == "" || location == "" {
		return nil, ErrMissingScope
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var models []*Model
	for _, model := range f.models {
		name, _ := ParseModelName(model.ResourceName)
		if name.Project != project || name.Location != location || model.DisplayName != displayName {
			continue
		}

		found := *model
		models = append(models, &found)
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ResourceName < models[j].ResourceName
	})

	return models, nil
}

// Close is a no-op.
func (f *Fixture) Close() error {
	return nil
}
