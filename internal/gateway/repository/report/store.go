// Package report archives the JSON document of each finished analysis.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("report not found")

// Store defines operations for persisting analysis reports.
type Store interface {
	Put(ctx context.Context, id string, content []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	// URL returns a direct download link, or "" when the backend has none.
	URL(ctx context.Context, id string) (string, error)
}

func objectKey(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("report id is required")
	}
	if strings.ContainsAny(id, "/\\") {
		return "", fmt.Errorf("invalid report id %q", id)
	}
	return "reports/" + id + ".json", nil
}
