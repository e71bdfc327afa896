package history

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snippetlens/internal/analysis"
)

func record(id string, at time.Time) Record {
	return Record{
		ID:        id,
		Backend:   "rules",
		Language:  "javascript",
		CreatedAt: at,
		Result: analysis.Result{
			Overview:    "overview " + id,
			LineByLine:  []analysis.LineExplanation{{LineNumber: 1, Code: "x", Explanation: "e"}},
			Suggestions: analysis.FallbackSuggestions(),
		},
	}
}

func TestMemoryStoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := record("a1", time.Now())
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, " a1 ")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Save(ctx, Record{}))
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, record(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	got, err := s.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"r4", "r3", "r2"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, 1, got[0].Lines)
	assert.Equal(t, 2, got[0].SuggestionCount)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, ClampLimit(0))
	assert.Equal(t, DefaultListLimit, ClampLimit(-4))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxListLimit, ClampLimit(MaxListLimit+1))
}

func TestRecordJSONFlattensResult(t *testing.T) {
	raw, err := json.Marshal(record("a1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"id", "backend", "language", "createdAt", "overview", "lineByLine", "suggestions"} {
		assert.Contains(t, m, key)
	}
	assert.NotContains(t, m, "Result")
}
