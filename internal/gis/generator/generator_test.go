package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/builder"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/parsers"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

// blockingCompleter waits for context cancellation and reports the deadline error.
type blockingCompleter struct{}

func (b *blockingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func parsedFixture(t *testing.T) *model.ParsedQuery {
	t.Helper()
	parsed := parsers.NewQueryParser(nil).Parse("Find all schools within 1km of hospitals in Mumbai")
	return &parsed
}

// ==========================
// Strategy Selection Tests
// ==========================

func TestGenerate_NoCompleter_UsesTemplate(t *testing.T) {
	g := New(nil, 0)
	parsed := parsedFixture(t)

	wf := g.Generate(context.Background(), parsed)

	require.Equal(t, builder.BuildTemplateWorkflow(parsed), wf)
}

func TestGenerate_CompleterFails_FallsBack(t *testing.T) {
	g := New(&fakeCompleter{err: errors.New("model unavailable")}, 0)
	parsed := parsedFixture(t)

	wf := g.Generate(context.Background(), parsed)

	// no partial AI output leaks through: the result is exactly the template
	// workflow
	require.Equal(t, builder.BuildTemplateWorkflow(parsed), wf)
}

func TestGenerate_UnparseableResponse_FallsBack(t *testing.T) {
	g := New(&fakeCompleter{response: "I am unable to help with that."}, 0)
	parsed := parsedFixture(t)

	wf := g.Generate(context.Background(), parsed)

	require.Equal(t, builder.BuildTemplateWorkflow(parsed), wf)
	assert.NotEmpty(t, wf.Steps)
}

func TestGenerate_Timeout_FallsBack(t *testing.T) {
	g := New(&blockingCompleter{}, 10*time.Millisecond)
	parsed := parsedFixture(t)

	start := time.Now()
	wf := g.Generate(context.Background(), parsed)

	require.Equal(t, builder.BuildTemplateWorkflow(parsed), wf)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestGenerate_ValidResponse_UsesAIWorkflow(t *testing.T) {
	response := `1. Acquire school location data | tool: OSM Overpass API
2. Create buffer zones | tool: GeoPandas
3. Intersect layers | tool: PostGIS`

	g := New(&fakeCompleter{response: response}, 0)

	wf := g.Generate(context.Background(), parsedFixture(t))

	require.Len(t, wf.Steps, 3)
	assert.Equal(t, "Create buffer zones", wf.Steps[1].Action)
	assert.Equal(t, []string{"OSM Overpass API", "GeoPandas", "PostGIS"}, wf.Tools)
}

func TestGenerate_Deterministic(t *testing.T) {
	g := New(nil, 0)
	parsed := parsedFixture(t)

	first := g.Generate(context.Background(), parsed)
	second := g.Generate(context.Background(), parsed)

	require.Equal(t, first, second)
}
