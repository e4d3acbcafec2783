package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/generator"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/parsers"
	logx "github.com/GeoFlow-core-poc-v1/server/pkg/logger"
)

// Node keys of the translation pipeline graph.
const (
	NodeQueryParser       = "QueryParser"
	NodeWorkflowGenerator = "WorkflowGenerator"
)

// PipelineState stores per-invocation state for the Eino graph. All reads and
// writes happen inside Eino state handlers or compose.ProcessState, which
// serialize access, so no additional locking is required.
type PipelineState struct {
	QueryID string
	Parsed  *model.ParsedQuery
}

// NewQueryParserPreHandler captures the query id into state before parsing.
func NewQueryParserPreHandler() func(context.Context, model.QueryInput, *PipelineState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *PipelineState) (model.QueryInput, error) {
		s.QueryID = in.QueryID
		s.Parsed = nil
		return in, nil
	}
}

// NewQueryParserNode creates the parser node. Parsing is total: any input
// yields a fully populated ParsedQuery.
func NewQueryParserNode(parser *parsers.QueryParser) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) (model.ParsedQuery, error) {
		return parser.Parse(input.Query), nil
	})
}

// NewQueryParserPostHandler saves the parsed query into state for the
// generator node.
func NewQueryParserPostHandler() func(context.Context, model.ParsedQuery, *PipelineState) (model.ParsedQuery, error) {
	return func(ctx context.Context, out model.ParsedQuery, state *PipelineState) (model.ParsedQuery, error) {
		state.Parsed = &out
		logx.Debug().
			Str("query_id", state.QueryID).
			Str("spatial_operation", out.SpatialOperation).
			Msg("parsed query stored in pipeline state")
		return out, nil
	}
}

// NewWorkflowGeneratorNode creates the generator node, assembling the final
// QueryResult from state and the generated workflow.
func NewWorkflowGeneratorNode(gen *generator.Generator) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, parsed model.ParsedQuery) (*model.QueryResult, error) {
		var queryID string
		err := compose.ProcessState(ctx, func(_ context.Context, state *PipelineState) error {
			if state.Parsed == nil {
				return fmt.Errorf("missing parsed query in state")
			}
			queryID = state.QueryID
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		wf := gen.Generate(ctx, &parsed)

		return &model.QueryResult{
			QueryID:     queryID,
			ParsedQuery: parsed,
			Workflow:    wf,
		}, nil
	})
}
