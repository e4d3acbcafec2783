package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
)

func TestBuildPipelineGraph_TemplateOnly(t *testing.T) {
	ctx := context.Background()

	runner, err := BuildPipelineGraph(ctx, Config{})
	require.NoError(t, err)

	result, err := runner.Invoke(ctx, model.QueryInput{
		QueryID: "q-1",
		Query:   "Find all schools within 1km of hospitals in Mumbai",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "q-1", result.QueryID)
	assert.Equal(t, []string{"school", "hospital"}, result.ParsedQuery.TargetObjects)
	assert.Equal(t, "Mumbai", result.ParsedQuery.Location)

	require.NotNil(t, result.Workflow)
	assert.Len(t, result.Workflow.Steps, 5)
	assert.Equal(t, model.CanonicalTools(), result.Workflow.Tools)
}

func TestBuildPipelineGraph_EmptyQuery(t *testing.T) {
	ctx := context.Background()

	runner, err := BuildPipelineGraph(ctx, Config{})
	require.NoError(t, err)

	result, err := runner.Invoke(ctx, model.QueryInput{Query: ""})
	require.NoError(t, err)

	// parsing is total: sentinels everywhere, single result-generation step
	assert.Equal(t, model.DefaultSpatialOperation, result.ParsedQuery.SpatialOperation)
	assert.Equal(t, model.DefaultLocation, result.ParsedQuery.Location)
	require.NotNil(t, result.Workflow)
	assert.Len(t, result.Workflow.Steps, 1)
}

func TestBuildGraph_NilConfig(t *testing.T) {
	_, err := BuildGraph(context.Background(), nil)
	require.Error(t, err)
}
