package analysis

import (
	"context"
	"errors"
	"sync/atomic"

	engine "snippetlens/internal/analysis"
)

var ErrCanceled = errors.New("analysis canceled")

// Pending is an analysis running in the background. Once canceled its
// result is discarded even if the work already finished.
type Pending struct {
	cancel   context.CancelFunc
	canceled atomic.Bool
	done     chan struct{}
	rec      Record
	err      error
}

// Start runs Analyze in the background.
func (s *Service) Start(ctx context.Context, req engine.Request) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		defer cancel()
		p.rec, p.err = s.Analyze(ctx, req)
	}()
	return p
}

func (p *Pending) Done() <-chan struct{} { return p.done }

func (p *Pending) Cancel() {
	p.canceled.Store(true)
	p.cancel()
}

func (p *Pending) Canceled() bool { return p.canceled.Load() }

// Wait blocks until the analysis finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (Record, error) {
	select {
	case <-ctx.Done():
		return Record{}, ctx.Err()
	case <-p.done:
	}
	if p.canceled.Load() {
		return Record{}, ErrCanceled
	}
	return p.rec, p.err
}
