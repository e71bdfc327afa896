package analysis

import (
	"context"

	engine "snippetlens/internal/analysis"
)

// RulesBackendName identifies the built-in rule engine in records and cache keys.
const RulesBackendName = "rules"

// Backend produces an analysis result for one request.
type Backend interface {
	Name() string
	Analyze(ctx context.Context, req engine.Request) (engine.Result, error)
}

// RulesBackend runs the pattern-matching engine in process.
type RulesBackend struct{}

func (RulesBackend) Name() string { return RulesBackendName }

func (RulesBackend) Analyze(ctx context.Context, req engine.Request) (engine.Result, error) {
	if err := ctx.Err(); err != nil {
		return engine.Result{}, err
	}
	return engine.Analyze(req)
}
