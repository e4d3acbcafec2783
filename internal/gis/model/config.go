package model

// ================ Config ================
type WorkflowModelConfig struct {
	Model       string  `envconfig:"WORKFLOW_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"WORKFLOW_MAX_TOKENS" default:"512"`
	Temperature float32 `envconfig:"WORKFLOW_TEMPERATURE" default:"0.1"`
}

type GeneratorConfig struct {
	// Timeout bounds a single model invocation; a deadline hit is treated as
	// an invocation failure and takes the template fallback path.
	Timeout string `envconfig:"GENERATOR_TIMEOUT" default:"30s"`
}

type HistoryConfig struct {
	TTL       string `envconfig:"HISTORY_TTL" default:"24h"`
	MaxRecent int    `envconfig:"HISTORY_MAX_RECENT" default:"50"`
}

type ServerConfig struct {
	Addr string `envconfig:"SERVER_ADDR" default:":8000"`
}
