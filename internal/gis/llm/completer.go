// Package llm defines the narrow model capability the generation pipeline
// depends on. Absence of a Completer is a normal, first-class state: the
// service runs in template-only mode without one.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	errx "github.com/GeoFlow-core-poc-v1/server/internal/core/error"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	logx "github.com/GeoFlow-core-poc-v1/server/pkg/logger"
)

// Completer accepts a formatted prompt and returns a free-text completion, or
// fails. Callers must tolerate failure on every invocation.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiConfig holds the configuration for workflow model creation.
type GeminiConfig struct {
	APIKey   string
	BaseURL  string
	Workflow *model.WorkflowModelConfig
}

// GeminiCompleter backs the Completer capability with a Gemini chat model.
type GeminiCompleter struct {
	chatModel *gemini.ChatModel
	modelName string
}

// NewGeminiCompleter creates the workflow chat model with the given configuration.
func NewGeminiCompleter(ctx context.Context, config GeminiConfig) (*GeminiCompleter, error) {
	if config.Workflow == nil {
		return nil, fmt.Errorf("workflow model config is nil")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Workflow.Model,
		Temperature: &config.Workflow.Temperature,
		MaxTokens:   &config.Workflow.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating workflow model")
		return nil, fmt.Errorf("error creating workflow model: %w", err)
	}

	return &GeminiCompleter{
		chatModel: chatModel,
		modelName: config.Workflow.Model,
	}, nil
}

// Complete runs a single synchronous generation for the prompt.
func (c *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := c.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", errx.New(err, http.StatusBadGateway, errx.ModelErrorMessage)
	}
	if out == nil {
		return "", errx.New(fmt.Errorf("empty model response"), http.StatusBadGateway, errx.ModelErrorMessage)
	}

	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		logx.Debug().
			Str("model", c.modelName).
			Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
			Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
			Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
			Msg("LLM usage")
	}

	return out.Content, nil
}

var _ Completer = (*GeminiCompleter)(nil)
