package lookup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ekisa-team/lookup-model/internal/artifact"
	"github.com/ekisa-team/lookup-model/internal/registry"
)

// Request identifies the model to look up.
type Request struct {
	ModelName           string `json:"model_name"`
	Location            string `json:"location"`
	Project             string `json:"project"`
	FailOnModelNotFound bool   `json:"fail_on_model_not_found"`
}

// WithDefaults fills an empty project or location.
func (r Request) WithDefaults(project, location string) Request {
	if r.Project == "" {
		r.Project = project
	}
	if r.Location == "" {
		r.Location = location
	}
	return r
}

// Validate checks that the request names a model and a scope.
func (r Request) Validate() error {
	switch {
	case r.ModelName == "":
		return fmt.Errorf("%w: model name is required", ErrInvalidRequest)
	case r.Project == "":
		return fmt.Errorf("%w: project is required", ErrInvalidRequest)
	case r.Location == "":
		return fmt.Errorf("%w: location is required", ErrInvalidRequest)
	}
	return nil
}

// Result is the outcome of a lookup.
// ModelResourceName is non-empty only when Outcome is Found.
type Result struct {
	Outcome           Outcome         `json:"outcome"`
	ModelResourceName string          `json:"model_resource_name"`
	TrainingDataset   map[string]any  `json:"training_dataset"`
	Model             *registry.Model `json:"model,omitempty"`
	Artifact          *artifact.Model `json:"artifact,omitempty"`
}

// Service resolves model display names against a registry.
type Service struct {
	registry registry.Registry
	datasets artifact.DatasetReader
}

// NewService creates a new lookup Service.
// A nil dataset reader reads from the local storage mount.
func NewService(reg registry.Registry, datasets artifact.DatasetReader) *Service {
	if datasets == nil {
		datasets = artifact.MountReader{}
	}

	return &Service{
		registry: reg,
		datasets: datasets,
	}
}

// Lookup finds the single model whose display name is req.ModelName and
// exports it into out. out may be nil, in which case a fresh artifact is used.
//
// Zero matches return an empty result, or ErrModelNotFound when
// req.FailOnModelNotFound is set. More than one match always returns
// ErrMultipleModelsFound.
func (s *Service) Lookup(ctx context.Context, req Request, out *artifact.Model) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if out == nil {
		out = artifact.NewModel("model", "", "")
	}

	slog.Info("Listing models with display name", "model_name", req.ModelName, "project", req.Project, "location", req.Location)

	models, err := s.registry.ListModels(ctx, req.Project, req.Location, req.ModelName)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}

	outcome := OutcomeOf(len(models))
	slog.Info("Found models", "count", len(models), "outcome", outcome.String())

	result := &Result{
		Outcome:         outcome,
		TrainingDataset: map[string]any{},
		Artifact:        out,
	}

	switch outcome {
	case NotFound:
		slog.Error("No model found", "model_name", req.ModelName, "project", req.Project, "location", req.Location)
		if req.FailOnModelNotFound {
			return nil, fmt.Errorf("%w: %q (project: %s location: %s)", ErrModelNotFound, req.ModelName, req.Project, req.Location)
		}
		return result, nil

	case MultipleFound:
		names := make([]string, 0, len(models))
		for _, m := range models {
			names = append(names, m.ResourceName)
		}
		slog.Error("Multiple models found", "model_name", req.ModelName, "count", len(models), "resource_names", names)
		return nil, fmt.Errorf("%w: %d models named %q", ErrMultipleModelsFound, len(models), req.ModelName)
	}

	target := models[0]
	slog.Info("Model found",
		"display_name", target.DisplayName,
		"resource_name", target.ResourceName,
		"uri", target.URI)

	out.URI = target.URI
	out.SetMetadata(artifact.MetadataResourceName, target.ResourceName)

	dataset, found, err := s.datasets.ReadTrainingDataset(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	if !found {
		slog.Warn("Training dataset metadata doesn't exist", "path", out.Path())
		dataset = map[string]any{}
	}

	result.ModelResourceName = target.ResourceName
	result.TrainingDataset = dataset
	result.Model = target

	return result, nil
}
