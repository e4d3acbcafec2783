package parsers

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	errx "github.com/GeoFlow-core-poc-v1/server/internal/core/error"
	logx "github.com/GeoFlow-core-poc-v1/server/pkg/logger"
)

// basic safety limits to avoid pathological model outputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxSteps      = 50        // maximum number of steps to accept
	maxErrSnippet = 200       // limit error snippet size
)

// stepLineRe matches the numbered-step shape the workflow prompt asks for:
//
//	<step number>. <action> | tool: <tool name>
var stepLineRe = regexp.MustCompile(`(?i)^\s*(\d+)[.)]\s*(.+?)\s*\|\s*tool:\s*(.+?)\s*$`)

// ParseWorkflowResponse converts the model's free-text completion into a
// Workflow. Only the numbered-step shape requested by the prompt is accepted;
// an output from which no step can be extracted is a parse failure, which the
// generator treats as a signal to fall back to the template strategy. An
// empty workflow is never returned to the caller.
func ParseWorkflowResponse(content string) (wf *model.Workflow, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "workflow_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("workflow parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			wf = nil
		}
	}()

	// content length guard
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "workflow_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	wf = &model.Workflow{
		Steps:       []model.Step{},
		Tools:       []string{},
		DataSources: []string{},
	}

	var parseErrors []string
	addErr := func(msg string) {
		parseErrors = append(parseErrors, msg)
	}

	seenTools := map[string]bool{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := stepLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if len(wf.Steps) >= maxSteps {
			logx.Warn().
				Str("component", "workflow_parser").
				Int("max_steps", maxSteps).
				Msg("step processing capped")
			break
		}

		num, aerr := strconv.Atoi(m[1])
		if aerr != nil || num <= 0 {
			addErr(fmt.Sprintf("bad_step_number: %s", safeSnippet(line)))
			continue
		}
		action := strings.TrimSpace(m[2])
		tool := strings.TrimSpace(m[3])
		if action == "" || tool == "" {
			addErr(fmt.Sprintf("empty_step_field: %s", safeSnippet(line)))
			continue
		}

		wf.Steps = append(wf.Steps, model.Step{
			Step:       num,
			Action:     action,
			Tool:       tool,
			Parameters: map[string]any{},
		})
		if !seenTools[tool] {
			seenTools[tool] = true
			wf.Tools = append(wf.Tools, tool)
		}
	}

	if len(parseErrors) > 0 {
		logx.Warn().
			Str("component", "workflow_parser").
			Strs("parse_errors", parseErrors).
			Msg("some response lines were rejected")
	}

	if len(wf.Steps) == 0 {
		return nil, errx.New(fmt.Errorf("no workflow steps in model output"), http.StatusUnprocessableEntity, errx.ParseErrorMessage)
	}

	return wf, nil
}

// --- helpers ---

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
