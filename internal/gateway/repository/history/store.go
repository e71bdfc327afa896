// Package history persists finished analyses so they can be listed and
// fetched again by ID.
package history

import (
	"context"
	"errors"
	"time"

	"snippetlens/internal/analysis"
)

var ErrNotFound = errors.New("analysis not found")

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Record is one finished analysis.
type Record struct {
	ID         string    `json:"id"`
	Backend    string    `json:"backend"`
	Language   string    `json:"language"`
	SourceText string    `json:"sourceText,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	analysis.Result
}

// Summary is the list view of a Record.
type Summary struct {
	ID              string    `json:"id"`
	Backend         string    `json:"backend"`
	Language        string    `json:"language"`
	CreatedAt       time.Time `json:"createdAt"`
	Lines           int       `json:"lines"`
	SuggestionCount int       `json:"suggestionCount"`
}

// Store defines operations for persisting analyses.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	// List returns the newest records first.
	List(ctx context.Context, limit int) ([]Summary, error)
}

func Summarize(rec Record) Summary {
	return Summary{
		ID:              rec.ID,
		Backend:         rec.Backend,
		Language:        rec.Language,
		CreatedAt:       rec.CreatedAt,
		Lines:           len(rec.LineByLine),
		SuggestionCount: len(rec.Suggestions),
	}
}

// ClampLimit maps a caller supplied limit onto [1, MaxListLimit].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
