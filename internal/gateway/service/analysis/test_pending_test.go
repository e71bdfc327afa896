package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "snippetlens/internal/analysis"
)

func TestPendingDeliversResult(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	p := svc.Start(context.Background(), engine.Request{SourceText: addSource})
	rec, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Len(t, rec.LineByLine, 3)
	assert.False(t, p.Canceled())
}

func TestPendingCancelDiscardsResult(t *testing.T) {
	primary := &stubBackend{name: "model", block: make(chan struct{})}
	svc, _ := newTestService(t, Options{Primary: primary})
	p := svc.Start(context.Background(), engine.Request{SourceText: addSource})
	p.Cancel()

	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("canceled analysis did not finish")
	}
	_, err := p.Wait(context.Background())
	assert.ErrorIs(t, err, ErrCanceled)

	list, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPendingCancelAfterCompletionStillDiscards(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	p := svc.Start(context.Background(), engine.Request{SourceText: addSource})
	<-p.Done()
	p.Cancel()
	_, err := p.Wait(context.Background())
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestPendingWaitHonoursCallerContext(t *testing.T) {
	primary := &stubBackend{name: "model", block: make(chan struct{})}
	svc, _ := newTestService(t, Options{Primary: primary})
	p := svc.Start(context.Background(), engine.Request{SourceText: addSource})
	defer p.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
