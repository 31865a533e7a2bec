package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/lookup-model/internal/artifact"
	"github.com/ekisa-team/lookup-model/internal/registry"
)

// --- Mock types ---

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) ListModels(ctx context.Context, project, location, displayName string) ([]*registry.Model, error) {
	args := m.Called(ctx, project, location, displayName)
	if models, ok := args.Get(0).([]*registry.Model); ok {
		return models, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistry) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockDatasetReader struct {
	mock.Mock
}

func (m *MockDatasetReader) ReadTrainingDataset(ctx context.Context, model *artifact.Model) (map[string]any, bool, error) {
	args := m.Called(ctx, model)
	if dataset, ok := args.Get(0).(map[string]any); ok {
		return dataset, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

// --- Helpers ---

func churnModel() *registry.Model {
	return &registry.Model{
		ResourceName: "models/123",
		DisplayName:  "churn-model",
		URI:          "gs://bucket/model",
		Location:     "us-central1",
	}
}

func request(name string, failOnNotFound bool) Request {
	return Request{
		ModelName:           name,
		Project:             "my-project",
		Location:            "us-central1",
		FailOnModelNotFound: failOnNotFound,
	}
}

// --- Tests ---

func TestLookup_SingleMatchWithoutDataset(t *testing.T) {
	reg := new(MockRegistry)
	reg.On("ListModels", mock.Anything, "my-project", "us-central1", "churn-model").
		Return([]*registry.Model{churnModel()}, nil).Once()

	out := artifact.NewModel("model", "", t.TempDir())
	result, err := NewService(reg, nil).Lookup(context.Background(), request("churn-model", false), out)
	require.NoError(t, err)

	assert.Equal(t, Found, result.Outcome)
	assert.Equal(t, "models/123", result.ModelResourceName)
	assert.Equal(t, map[string]any{}, result.TrainingDataset)
	assert.Equal(t, churnModel(), result.Model)
	assert.Equal(t, "gs://bucket/model", out.URI)
	assert.Equal(t, "models/123", out.Metadata[artifact.MetadataResourceName])
	assert.Same(t, out, result.Artifact)

	reg.AssertExpectations(t)
}

func TestLookup_SingleMatchWithDataset(t *testing.T) {
	mount := t.TempDir()
	dir := filepath.Join(mount, "bucket", "model")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, artifact.TrainingDatasetFile),
		[]byte(`{"source": "bq://p.d.churn", "rows": 1200, "features": ["tenure", "plan"]}`),
		0o644,
	))

	reg := new(MockRegistry)
	reg.On("ListModels", mock.Anything, "my-project", "us-central1", "churn-model").
		Return([]*registry.Model{churnModel()}, nil)

	out := artifact.NewModel("model", "", mount)
	result, err := NewService(reg, artifact.MountReader{}).Lookup(context.Background(), request("churn-model", true), out)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"source":   "bq://p.d.churn",
		"rows":     json.Number("1200"),
		"features": []any{"tenure", "plan"},
	}, result.TrainingDataset)
}

func TestLookup_NotFoundSoft(t *testing.T) {
	reg := new(MockRegistry)
	reg.On("ListModels", mock.Anything, "my-project", "us-central1", "unknown").
		Return([]*registry.Model{}, nil)
	datasets := new(MockDatasetReader)

	out := artifact.NewModel("model", "", "")
	result, err := NewService(reg, datasets).Lookup(context.Background(), request("unknown", false), out)
	require.NoError(t, err)

	assert.Equal(t, NotFound, result.Outcome)
	assert.Empty(t, result.ModelResourceName)
	assert.Equal(t, map[string]any{}, result.TrainingDataset)
	assert.Nil(t, result.Model)
	assert.Empty(t, out.URI)
	assert.Empty(t, out.Metadata)

	datasets.AssertNotCalled(t, "ReadTrainingDataset", mock.Anything, mock.Anything)
}

func TestLookup_NotFoundHard(t *testing.T) {
	reg := new(MockRegistry)
	reg.On("ListModels", mock.Anything, "my-project", "us-central1", "unknown").
		Return(nil, nil)

	result, err := NewService(reg, nil).Lookup(context.Background(), request("unknown", true), nil)
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.Nil(t, result)
}

func TestLookup_MultipleFound(t *testing.T) {
	models := []*registry.Model{
		{ResourceName: "models/1", DisplayName: "ambiguous", URI: "gs://bucket/a"},
		{ResourceName: "models/2", DisplayName: "ambiguous", URI: "gs://bucket/b"},
	}

	for _, failOnNotFound := range []bool{false, true} {
		reg := new(MockRegistry)
		reg.On("ListModels", mock.Anything, "my-project", "us-central1", "ambiguous").Return(models, nil)

		out := artifact.NewModel("model", "", "")
		result, err := NewService(reg, nil).Lookup(context.Background(), request("ambiguous", failOnNotFound), out)
		assert.ErrorIs(t, err, ErrMultipleModelsFound)
		assert.Nil(t, result)
		assert.Empty(t, out.URI)
	}
}

func TestLookup_UpstreamErrorPropagates(t *testing.T) {
	upstream := errors.New("rpc error: code = PermissionDenied")

	reg := new(MockRegistry)
	reg.On("ListModels", mock.Anything, "my-project", "us-central1", "churn-model").Return(nil, upstream)

	_, err := NewService(reg, nil).Lookup(context.Background(), request("churn-model", false), nil)
	assert.ErrorIs(t, err, upstream)
	assert.NotErrorIs(t, err, ErrModelNotFound)
}

func TestLookup_DatasetErrorFails(t *testing.T) {
	reg := new(MockRegistry)
	reg.On("ListModels", mock.Anything, "my-project", "us-central1", "churn-model").
		Return([]*registry.Model{churnModel()}, nil)

	datasets := new(MockDatasetReader)
	datasets.On("ReadTrainingDataset", mock.Anything, mock.Anything).Return(nil, false, artifact.ErrInvalidDataset)

	_, err := NewService(reg, datasets).Lookup(context.Background(), request("churn-model", false), nil)
	assert.ErrorIs(t, err, artifact.ErrInvalidDataset)
}

func TestLookup_DatasetReaderSeesResolvedURI(t *testing.T) {
	reg := new(MockRegistry)
	reg.On("ListModels", mock.Anything, "my-project", "us-central1", "churn-model").
		Return([]*registry.Model{churnModel()}, nil)

	datasets := new(MockDatasetReader)
	datasets.On("ReadTrainingDataset", mock.Anything, mock.MatchedBy(func(m *artifact.Model) bool {
		return m.URI == "gs://bucket/model"
	})).Return(map[string]any{"rows": float64(10)}, true, nil).Once()

	result, err := NewService(reg, datasets).Lookup(context.Background(), request("churn-model", false), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"rows": float64(10)}, result.TrainingDataset)

	datasets.AssertExpectations(t)
}

func TestLookup_InvalidRequest(t *testing.T) {
	reg := new(MockRegistry)
	svc := NewService(reg, nil)

	for _, req := range []Request{
		{Project: "p", Location: "l"},
		{ModelName: "m", Location: "l"},
		{ModelName: "m", Project: "p"},
	} {
		_, err := svc.Lookup(context.Background(), req, nil)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}

	reg.AssertNotCalled(t, "ListModels", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLookup_Idempotent(t *testing.T) {
	fixture := registry.NewFixture()
	require.NoError(t, fixture.Add(&registry.Model{
		ResourceName: "projects/my-project/locations/us-central1/models/123",
		DisplayName:  "churn-model",
		URI:          "gs://bucket/model",
	}))

	svc := NewService(fixture, nil)
	mount := t.TempDir()

	first, err := svc.Lookup(context.Background(), request("churn-model", false), artifact.NewModel("model", "", mount))
	require.NoError(t, err)
	second, err := svc.Lookup(context.Background(), request("churn-model", false), artifact.NewModel("model", "", mount))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "projects/my-project/locations/us-central1/models/123", first.ModelResourceName)
}

func TestRequest_WithDefaults(t *testing.T) {
	req := Request{ModelName: "m"}.WithDefaults("p", "l")
	assert.Equal(t, Request{ModelName: "m", Project: "p", Location: "l"}, req)

	req = Request{ModelName: "m", Project: "explicit", Location: "here"}.WithDefaults("p", "l")
	assert.Equal(t, "explicit", req.Project)
	assert.Equal(t, "here", req.Location)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, NotFound, OutcomeOf(0))
	assert.Equal(t, Found, OutcomeOf(1))
	assert.Equal(t, MultipleFound, OutcomeOf(2))
	assert.Equal(t, MultipleFound, OutcomeOf(10))
	assert.Equal(t, "multiple_found", MultipleFound.String())
}
