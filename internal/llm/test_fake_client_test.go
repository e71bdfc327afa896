package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// fakeClient replays queued responses; once the queue is drained the last
// entry repeats.
type fakeClient struct {
	mu        sync.Mutex
	responses []fakeResponse
	calls     int
	prompt    string
	input     any
}

type fakeResponse struct {
	raw string
	err error
}

func (f *fakeClient) Name() string { return "fake" }
func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, input any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompt, f.input = prompt, input
	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++
	r := f.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	return json.RawMessage(r.raw), nil
}
