// Package analysis coordinates analysis backends with the result cache,
// the history store and the report archive.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	engine "snippetlens/internal/analysis"
	analysiscache "snippetlens/internal/cache/analysis"
	"snippetlens/internal/gateway/repository/history"
	"snippetlens/internal/gateway/repository/report"
	"snippetlens/internal/util/jsonutil"
)

type Record = history.Record

const archiveTimeout = 10 * time.Second

type Options struct {
	// Primary is the preferred backend. Nil means the rule engine.
	Primary Backend
	Cache   *analysiscache.Cache[engine.Result]
	// History defaults to an in-memory store.
	History history.Store
	// Reports is optional; without it reports are rendered from history.
	Reports report.Store
	// MinLatency is the minimum time Analyze takes before returning.
	MinLatency time.Duration
	Logger     *log.Logger

	Now   func() time.Time
	NewID func() string
}

// Service implements analysis business logic.
type Service struct {
	primary    Backend
	rules      Backend
	cache      *analysiscache.Cache[engine.Result]
	history    history.Store
	reports    report.Store
	minLatency time.Duration
	log        *log.Logger
	now        func() time.Time
	newID      func() string
}

func New(opts Options) *Service {
	s := &Service{
		primary:    opts.Primary,
		rules:      RulesBackend{},
		cache:      opts.Cache,
		history:    opts.History,
		reports:    opts.Reports,
		minLatency: opts.MinLatency,
		log:        opts.Logger,
		now:        opts.Now,
		newID:      opts.NewID,
	}
	if s.primary == nil {
		s.primary = s.rules
	}
	if s.history == nil {
		s.history = history.NewMemoryStore()
	}
	if s.log == nil {
		s.log = log.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// BackendName reports the preferred backend.
func (s *Service) BackendName() string { return s.primary.Name() }

// Analyze validates req, runs it through the cache and backends, and stores
// the finished record.
func (s *Service) Analyze(ctx context.Context, req engine.Request) (Record, error) {
	if strings.TrimSpace(req.SourceText) == "" {
		return Record{}, engine.ErrInvalidInput
	}
	req.Language = engine.NormalizeLanguage(req.Language)
	start := s.now()

	res, backend, err := s.run(ctx, req)
	if err != nil {
		return Record{}, err
	}
	if err := s.pace(ctx, start); err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:         s.newID(),
		Backend:    backend,
		Language:   req.Language,
		SourceText: req.SourceText,
		CreatedAt:  s.now().UTC(),
		Result:     res,
	}
	if err := s.history.Save(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("save analysis: %w", err)
	}
	s.archive(ctx, rec)
	return rec, nil
}

func (s *Service) run(ctx context.Context, req engine.Request) (engine.Result, string, error) {
	res, err := s.runBackend(ctx, s.primary, req)
	if err == nil {
		return res, s.primary.Name(), nil
	}
	if s.primary == s.rules || errors.Is(err, engine.ErrInvalidInput) || ctx.Err() != nil {
		return engine.Result{}, "", err
	}
	s.log.Printf("analysis: %s failed, falling back to %s: %v", s.primary.Name(), s.rules.Name(), err)
	res, err = s.runBackend(ctx, s.rules, req)
	if err != nil {
		return engine.Result{}, "", err
	}
	return res, s.rules.Name(), nil
}

func (s *Service) runBackend(ctx context.Context, b Backend, req engine.Request) (engine.Result, error) {
	key := analysiscache.Key(b.Name(), req.Language, req.SourceText)
	if res, ok := s.cache.Get(key); ok {
		return res, nil
	}
	res, err := b.Analyze(ctx, req)
	if err != nil {
		return engine.Result{}, err
	}
	s.cache.Set(key, res)
	return res, nil
}

// pace holds the caller until MinLatency has passed since start.
func (s *Service) pace(ctx context.Context, start time.Time) error {
	wait := s.minLatency - s.now().Sub(start)
	if wait <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) archive(ctx context.Context, rec Record) {
	if s.reports == nil {
		return
	}
	body, err := jsonutil.MarshalNoEscapeIndent(rec, "", "  ")
	if err != nil {
		s.log.Printf("report store: encode %s: %v", rec.ID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if err := s.reports.Put(ctx, rec.ID, body); err != nil {
		s.log.Printf("report store: put %s: %v", rec.ID, err)
	}
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.history.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit int) ([]history.Summary, error) {
	return s.history.List(ctx, limit)
}

// ReportURL returns a direct download link for the archived report of id,
// or "" when the archive cannot hand one out.
func (s *Service) ReportURL(ctx context.Context, id string) (string, error) {
	if _, err := s.history.Get(ctx, id); err != nil {
		return "", err
	}
	if s.reports == nil {
		return "", nil
	}
	return s.reports.URL(ctx, id)
}

// Report returns the archived JSON report of id. Records that were never
// archived are rendered from history.
func (s *Service) Report(ctx context.Context, id string) ([]byte, error) {
	if s.reports != nil {
		body, err := s.reports.Get(ctx, id)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, report.ErrNotFound) {
			s.log.Printf("report store: get %s: %v", id, err)
		}
	}
	rec, err := s.history.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonutil.MarshalNoEscapeIndent(rec, "", "  ")
}
