package model

// Sentinel defaults applied when no catalog pattern matches. Every field of a
// ParsedQuery is always populated; parsing is a total function.
const (
	DefaultSpatialOperation = "proximity"
	DefaultLocation         = "India"
	DefaultAnalysisType     = "find"
)

// Parameter keys extracted from the query text.
const (
	ParamDistance = "distance"
	ParamUnit     = "unit"
)

// ParsedQuery is the structured intent extracted from a natural language
// geospatial query. It is an immutable value object created fresh per query.
type ParsedQuery struct {
	OriginalQuery    string            `json:"original_query"`
	SpatialOperation string            `json:"spatial_operation"`
	TargetObjects    []string          `json:"target_objects"`
	Location         string            `json:"location"`
	AnalysisType     string            `json:"analysis_type"`
	Parameters       map[string]string `json:"parameters"`
}

// HasTarget reports whether the given normalized object label was detected.
func (p *ParsedQuery) HasTarget(label string) bool {
	for _, t := range p.TargetObjects {
		if t == label {
			return true
		}
	}
	return false
}

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	QueryID string `json:"query_id,omitempty"`
	Query   string `json:"query"`
}

// QueryResult carries the parsed query together with the generated workflow.
type QueryResult struct {
	QueryID     string      `json:"query_id,omitempty"`
	ParsedQuery ParsedQuery `json:"parsed_query"`
	Workflow    *Workflow   `json:"workflow"`
}
