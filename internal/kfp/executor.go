package kfp

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ekisa-team/lookup-model/internal/artifact"
	"github.com/ekisa-team/lookup-model/internal/lookup"
	"github.com/ekisa-team/lookup-model/internal/mapsafe"
)

// Input and output names of the lookup-model component.
const (
	ParamModelName           = "model_name"
	ParamLocation            = "location"
	ParamProject             = "project"
	ParamFailOnModelNotFound = "fail_on_model_not_found"

	OutputModel             = "model"
	OutputModelResourceName = "model_resource_name"
	OutputTrainingDataset   = "training_dataset"
)

// ArtifactType names the schema of a runtime artifact.
type ArtifactType struct {
	SchemaTitle   string `json:"schemaTitle,omitempty"`
	SchemaVersion string `json:"schemaVersion,omitempty"`
}

// RuntimeArtifact is an artifact as passed by the pipeline launcher.
type RuntimeArtifact struct {
	Name     string         `json:"name,omitempty"`
	Type     *ArtifactType  `json:"type,omitempty"`
	URI      string         `json:"uri"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ArtifactList holds the artifacts bound to one input or output name.
type ArtifactList struct {
	Artifacts []RuntimeArtifact `json:"artifacts"`
}

// OutputParameter tells the executor where to write a parameter value.
type OutputParameter struct {
	OutputFile string `json:"outputFile"`
}

// Inputs of an executor invocation.
type Inputs struct {
	ParameterValues map[string]any `json:"parameterValues"`
}

// Outputs of an executor invocation.
type Outputs struct {
	Artifacts  map[string]ArtifactList    `json:"artifacts"`
	Parameters map[string]OutputParameter `json:"parameters"`
	OutputFile string                     `json:"outputFile"`
}

// ExecutorInput is the document passed with --executor_input.
type ExecutorInput struct {
	Inputs  Inputs  `json:"inputs"`
	Outputs Outputs `json:"outputs"`
}

// ParseExecutorInput decodes an executor input document.
func ParseExecutorInput(data []byte) (*ExecutorInput, error) {
	var in ExecutorInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExecutorInput, err)
	}
	if in.Inputs.ParameterValues == nil {
		in.Inputs.ParameterValues = map[string]any{}
	}

	return &in, nil
}

// LookupRequest builds the lookup request from the input parameters.
func (in *ExecutorInput) LookupRequest() lookup.Request {
	params := in.Inputs.ParameterValues

	return lookup.Request{
		ModelName:           mapsafe.Get(params, ParamModelName, ""),
		Location:            mapsafe.Get(params, ParamLocation, ""),
		Project:             mapsafe.Get(params, ParamProject, ""),
		FailOnModelNotFound: mapsafe.Get(params, ParamFailOnModelNotFound, false),
	}
}

// OutputArtifact returns the first artifact bound to the output name as a model artifact.
func (in *ExecutorInput) OutputArtifact(name, gcsMount string) (*artifact.Model, error) {
	list, ok := in.Outputs.Artifacts[name]
	if !ok || len(list.Artifacts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingOutput, name)
	}

	rt := list.Artifacts[0]
	model := artifact.NewModel(rt.Name, rt.URI, gcsMount)
	for k, v := range rt.Metadata {
		model.Metadata[k] = v
	}

	return model, nil
}

// ExecutorOutput collects the values written back to the launcher.
type ExecutorOutput struct {
	parameters map[string]any
	artifacts  map[string]*artifact.Model
}

// NewExecutorOutput creates an empty ExecutorOutput.
func NewExecutorOutput() *ExecutorOutput {
	return &ExecutorOutput{
		parameters: make(map[string]any),
		artifacts:  make(map[string]*artifact.Model),
	}
}

// FromResult records the outputs of a lookup.
func FromResult(result *lookup.Result) *ExecutorOutput {
	out := NewExecutorOutput()
	out.SetParameter(OutputModelResourceName, result.ModelResourceName)
	out.SetParameter(OutputTrainingDataset, result.TrainingDataset)
	if result.Artifact != nil {
		out.SetArtifact(OutputModel, result.Artifact)
	}

	return out
}

// SetParameter records an output parameter value.
func (o *ExecutorOutput) SetParameter(name string, value any) {
	o.parameters[name] = value
}

// SetArtifact records an output artifact.
func (o *ExecutorOutput) SetArtifact(name string, model *artifact.Model) {
	o.artifacts[name] = model
}

// Struct returns the output document as a protobuf Struct.
func (o *ExecutorOutput) Struct() (*structpb.Struct, error) {
	artifacts := make(map[string]any, len(o.artifacts))
	for name, model := range o.artifacts {
		metadata := model.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}

		artifacts[name] = map[string]any{
			"artifacts": []any{
				map[string]any{
					"name":     model.Name,
					"uri":      model.URI,
					"metadata": metadata,
				},
			},
		}
	}

	doc, err := structpb.NewStruct(map[string]any{
		"artifacts":       artifacts,
		"parameterValues": o.parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("kfp: output is not JSON compatible: %w", err)
	}

	return doc, nil
}

// Marshal encodes the output document as JSON.
func (o *ExecutorOutput) Marshal() ([]byte, error) {
	doc, err := o.Struct()
	if err != nil {
		return nil, err
	}

	return protojson.MarshalOptions{Multiline: true}.Marshal(doc)
}

// Write writes the output document to in.Outputs.OutputFile and every
// parameter to its own output file, when the launcher asked for them.
func (o *ExecutorOutput) Write(in *ExecutorInput) error {
	for name, param := range in.Outputs.Parameters {
		value, ok := o.parameters[name]
		if !ok || param.OutputFile == "" {
			continue
		}

		data, err := encodeParameter(value)
		if err != nil {
			return fmt.Errorf("kfp: failed to encode parameter %s: %w", name, err)
		}
		if err := writeFile(param.OutputFile, data); err != nil {
			return err
		}
		slog.Debug("Output parameter written", "name", name, "path", param.OutputFile)
	}

	if in.Outputs.OutputFile == "" {
		return nil
	}

	data, err := o.Marshal()
	if err != nil {
		return err
	}
	if err := writeFile(in.Outputs.OutputFile, data); err != nil {
		return err
	}
	slog.Info("Executor output written", "path", in.Outputs.OutputFile)

	return nil
}

// encodeParameter writes strings verbatim and anything else as JSON.
func encodeParameter(value any) ([]byte, error) {
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}

	v, err := structpb.NewValue(value)
	if err != nil {
		return nil, err
	}

	return protojson.Marshal(v)
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("kfp: failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("kfp: failed to write %s: %w", path, err)
	}

	return nil
}
