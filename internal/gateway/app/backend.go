package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"snippetlens/internal/gateway/config"
	analysissvc "snippetlens/internal/gateway/service/analysis"
	"snippetlens/internal/llm"
	llmclient "snippetlens/internal/llmClient"
)

const llmRetryBaseDelay = 500 * time.Millisecond

// initBackend returns the configured primary backend and a release func.
func initBackend(ctx context.Context, cfg *config.Config) (analysissvc.Backend, func(), error) {
	if cfg.Backend != config.BackendGemini {
		return analysissvc.RulesBackend{}, func() {}, nil
	}
	gemini, err := llmclient.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	client := llm.Wrap(gemini,
		llm.WithLogging(log.Default()),
		llm.Retry(cfg.Gemini.MaxAttempts, llmRetryBaseDelay),
	)
	log.Printf("analyzer backend: %s", client.Name())
	analyzer := llm.NewAnalyzer(client)
	return analyzer, func() { _ = analyzer.Close() }, nil
}
