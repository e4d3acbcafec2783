// Package generator selects between the AI-assisted workflow strategy and the
// deterministic template strategy. Workflow generation is a total function
// from the caller's perspective: no failure on the AI path ever surfaces,
// every failure kind takes the template fallback for that call only.
package generator

import (
	"context"
	"time"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/builder"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/llm"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/parsers"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/prompts"
	logx "github.com/GeoFlow-core-poc-v1/server/pkg/logger"
)

// DefaultTimeout bounds a single model invocation when no explicit timeout is
// configured.
const DefaultTimeout = 30 * time.Second

// Generator is safe for concurrent use; all request data is call-scoped.
type Generator struct {
	completer llm.Completer
	timeout   time.Duration
}

// New creates a Generator. A nil completer is a normal state and selects the
// template strategy for every call.
func New(completer llm.Completer, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Generator{completer: completer, timeout: timeout}
}

// Generate produces a workflow for the parsed query. With a completer
// configured it renders the workflow prompt, invokes the model under the
// configured timeout and parses the response; on any failure (invocation
// error, deadline, unparseable output) it falls back to the template
// strategy.
func (g *Generator) Generate(ctx context.Context, parsed *model.ParsedQuery) *model.Workflow {
	if g.completer == nil {
		return builder.BuildTemplateWorkflow(parsed)
	}

	wf, err := g.generateAIWorkflow(ctx, parsed)
	if err != nil {
		logx.Warn().
			Err(err).
			Str("component", "generator").
			Msg("AI workflow generation failed, falling back to template strategy")
		return builder.BuildTemplateWorkflow(parsed)
	}
	return wf
}

func (g *Generator) generateAIWorkflow(ctx context.Context, parsed *model.ParsedQuery) (*model.Workflow, error) {
	prompt, err := prompts.RenderWorkflowPrompt(ctx, parsed)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	completion, err := g.completer.Complete(cctx, prompt)
	if err != nil {
		return nil, err
	}

	return parsers.ParseWorkflowResponse(completion)
}
