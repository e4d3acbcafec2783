package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/GeoFlow-core-poc-v1/server/internal/core"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/graph"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/llm"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/model"
	"github.com/GeoFlow-core-poc-v1/server/internal/gis/repo"
	"github.com/GeoFlow-core-poc-v1/server/internal/server"
	logx "github.com/GeoFlow-core-poc-v1/server/pkg/logger"
	pkgredis "github.com/GeoFlow-core-poc-v1/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider; leave the API key empty to run in template-only mode
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Pipeline configs
	Workflow  model.WorkflowModelConfig
	Generator model.GeneratorConfig
	History   model.HistoryConfig
	Server    model.ServerConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	logx.Info().Msg("Connected to Redis successfully")

	// ====================================================
	// Build pipeline config entirely from env
	ttl, err := time.ParseDuration(envCfg.History.TTL)
	if err != nil {
		log.Fatalf("Invalid HISTORY_TTL '%s': %v", envCfg.History.TTL, err)
	}
	timeout, err := time.ParseDuration(envCfg.Generator.Timeout)
	if err != nil {
		log.Fatalf("Invalid GENERATOR_TIMEOUT '%s': %v", envCfg.Generator.Timeout, err)
	}

	var completer llm.Completer
	if envCfg.APIKey != "" {
		gc, err := llm.NewGeminiCompleter(ctx, llm.GeminiConfig{
			APIKey:   envCfg.APIKey,
			BaseURL:  envCfg.BaseURL,
			Workflow: &envCfg.Workflow,
		})
		if err != nil {
			// degraded mode rather than failing startup
			logx.Warn().Err(err).Msg("Failed to initialise workflow model, continuing in template-only mode")
		} else {
			completer = gc
		}
	} else {
		logx.Info().Msg("No GEMINI_API_KEY configured, running in template-only mode")
	}

	runner, err := graph.BuildPipelineGraph(ctx, graph.Config{
		Completer: completer,
		Timeout:   timeout,
	})
	if err != nil {
		log.Fatalf("Failed to build pipeline graph: %v", err)
	}

	runDemoQueries(ctx, runner)

	queryRepo := repo.NewRedisQueryRepository(rdb, ttl, envCfg.History.MaxRecent)
	svc := server.NewService(runner, queryRepo)

	logx.Info().Str("addr", envCfg.Server.Addr).Msg("Starting HTTP server")
	if err := http.ListenAndServe(envCfg.Server.Addr, svc.Router()); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}

func runDemoQueries(ctx context.Context, runner graph.Runner) {
	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Proximity query with buffer distance",
			query:       "Find all schools within 1km of hospitals in Mumbai",
		},
		{
			description: "Simple feature lookup",
			query:       "Show forests in Kerala",
		},
		{
			description: "Density analysis",
			query:       "Calculate population density by district",
		},
	}

	for i, test := range testQueries {
		fmt.Printf("\nDemo %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)

		result, err := runner.Invoke(ctx, model.QueryInput{Query: test.query})
		if err != nil {
			logx.Error().Err(err).Int("demo", i+1).Msg("pipeline invocation failed")
			continue
		}

		fmt.Printf("Parsed: operation=%q objects=%v location=%q analysis=%q params=%v\n",
			result.ParsedQuery.SpatialOperation,
			result.ParsedQuery.TargetObjects,
			result.ParsedQuery.Location,
			result.ParsedQuery.AnalysisType,
			result.ParsedQuery.Parameters,
		)
		for _, step := range result.Workflow.Steps {
			fmt.Printf("  Step %d: %s [%s]\n", step.Step, step.Action, step.Tool)
		}
	}
}
