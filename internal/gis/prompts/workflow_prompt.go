package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
)

//go:embed template/workflow_prompt.txt
var workflowPrompt string

// RenderWorkflowPrompt renders the workflow generation prompt via the Eino
// prompt component. This triggers Prompt callbacks and returns the final
// prompt string handed to the model.
func RenderWorkflowPrompt(ctx context.Context, parsed *model.ParsedQuery) (string, error) {
	if parsed == nil {
		return "", fmt.Errorf("parsed query is nil")
	}

	components, err := json.Marshal(parsed)
	if err != nil {
		return "", fmt.Errorf("marshal parsed components: %w", err)
	}

	// Safely render known tokens only to avoid interfering with braces in the
	// components JSON
	content := strings.NewReplacer(
		"{query}", parsed.OriginalQuery,
		"{components}", string(components),
	).Replace(workflowPrompt)

	// Wrap via Eino prompt component using a messages placeholder to emit callbacks
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("user_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"user_messages": []*schema.Message{schema.UserMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("workflow prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("workflow prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}
