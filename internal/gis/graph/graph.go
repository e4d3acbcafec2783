package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/generator"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/llm"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/parsers"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/patterns"
	logx "github.com/GeoFlow-core-poc-v1/server/pkg/logger"
)

// Runner is a thin wrapper to execute the compiled graph with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (*model.QueryResult, error)
}

// Config holds everything needed to compose the translation pipeline end-to-end.
type Config struct {
	// Catalog is the recognizer catalog; nil selects the default catalog.
	Catalog *patterns.Catalog
	// Completer is the optional model capability; nil selects template-only mode.
	Completer llm.Completer
	// Timeout bounds a single model invocation on the AI path.
	Timeout time.Duration
}

// GraphConfig holds the constructed collaborators needed to build the graph.
type GraphConfig struct {
	Parser    *parsers.QueryParser
	Generator *generator.Generator
}

// GraphBuilder handles the construction of the translation pipeline graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *model.QueryResult]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *model.QueryResult]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (*model.QueryResult, error) {
	return r.runnable.Invoke(ctx, in)
}

// BuildPipelineGraph composes parser and generator, builds the graph, and returns a Runner.
func BuildPipelineGraph(ctx context.Context, cfg Config) (Runner, error) {
	runnable, err := BuildGraph(ctx, &GraphConfig{
		Parser:    parsers.NewQueryParser(cfg.Catalog),
		Generator: generator.New(cfg.Completer, cfg.Timeout),
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Pipeline graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled pipeline graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *model.QueryResult], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Parser == nil {
		return nil, fmt.Errorf("query parser is nil")
	}
	if config.Generator == nil {
		return nil, fmt.Errorf("workflow generator is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *model.QueryResult](
			compose.WithGenLocalState(func(ctx context.Context) *PipelineState {
				return &PipelineState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph.
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(NodeQueryParser,
		NewQueryParserNode(b.config.Parser),
		compose.WithStatePreHandler(NewQueryParserPreHandler()),
		compose.WithStatePostHandler(NewQueryParserPostHandler()),
	)

	b.graph.AddLambdaNode(NodeWorkflowGenerator,
		NewWorkflowGeneratorNode(b.config.Generator),
	)
}

// addEdges creates the main flow connections between nodes.
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, NodeQueryParser},
		{NodeQueryParser, NodeWorkflowGenerator},
		{NodeWorkflowGenerator, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// compile finalizes and compiles the graph.
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *model.QueryResult], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
