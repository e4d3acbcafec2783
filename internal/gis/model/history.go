package model

import (
	"context"
	"time"
)

// Execution statuses recorded for a submitted workflow. Actual tool execution
// is outside this service; an execution record only tracks plan acceptance.
const (
	ExecutionAccepted  = "accepted"
	ExecutionCompleted = "completed"
)

// QueryRecord is a processed query persisted for the dashboard history panel.
type QueryRecord struct {
	QueryID     string      `json:"query_id"`
	Query       string      `json:"query"`
	ParsedQuery ParsedQuery `json:"parsed_query"`
	Workflow    *Workflow   `json:"workflow"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ExecutionSummary describes the accepted plan in dashboard-friendly terms.
type ExecutionSummary struct {
	TotalSteps          int      `json:"total_steps"`
	DataSourcesUsed     []string `json:"data_sources_used"`
	OperationsPerformed []string `json:"operations_performed"`
}

// ExecutionRecord tracks the lifecycle of a submitted workflow.
type ExecutionRecord struct {
	ExecutionID string           `json:"execution_id"`
	QueryID     string           `json:"query_id"`
	Status      string           `json:"status"`
	Progress    int              `json:"progress"`
	Summary     ExecutionSummary `json:"summary"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type QueryRepository interface {
	// SaveQuery persists a processed query and registers it in the recent list.
	SaveQuery(ctx context.Context, rec *QueryRecord) error

	// GetQuery retrieves a processed query by id.
	GetQuery(ctx context.Context, queryID string) (*QueryRecord, error)

	// RecentQueries returns up to limit most recent query records, newest first.
	RecentQueries(ctx context.Context, limit int) ([]*QueryRecord, error)

	// SaveExecution persists an execution record.
	SaveExecution(ctx context.Context, rec *ExecutionRecord) error

	// GetExecution retrieves an execution record by id.
	GetExecution(ctx context.Context, executionID string) (*ExecutionRecord, error)
}
