package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"snippetlens/internal/analysis"
)

const table = "analyses"

// columns lists the analyses table columns in scan order.
var columns = []string{"id", "backend", "language", "source_text", "result", "created_at"}

type PostgresStore struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens dsn with the pgx driver and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach db: %w", err)
	}
	return NewPostgresStore(db), nil
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS analyses (
  id TEXT PRIMARY KEY,
  backend TEXT NOT NULL,
  language TEXT NOT NULL,
  source_text TEXT NOT NULL DEFAULT '',
  result TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`)
	})
	return s.schemaErr
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.Postgres)
}

func insertQuery(rec Record, body []byte) (string, []any) {
	return builder().Insert(table).
		Columns(columns...).
		Values(rec.ID, rec.Backend, rec.Language, rec.SourceText, string(body), rec.CreatedAt.UTC()).
		Query()
}

func getQuery(id string) (string, []any) {
	return builder().Select(columns...).
		From(entsql.Table(table)).
		Where(entsql.EQ("id", id)).
		Query()
}

func listQuery(limit int) (string, []any) {
	return builder().Select(columns...).
		From(entsql.Table(table)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Limit(limit).
		Query()
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	q, args := insertQuery(rec, body)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert analysis %s: %w", rec.ID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, ErrNotFound
	}
	if err := s.ensureSchema(ctx); err != nil {
		return Record{}, err
	}
	q, args := getQuery(id)
	rec, err := scanRecord(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Summary, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	q, args := listQuery(ClampLimit(limit))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec  Record
		body string
	)
	if err := row.Scan(&rec.ID, &rec.Backend, &rec.Language, &rec.SourceText, &body, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	var res analysis.Result
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return Record{}, fmt.Errorf("decode result for %s: %w", rec.ID, err)
	}
	if res.LineByLine == nil {
		res.LineByLine = []analysis.LineExplanation{}
	}
	rec.Result = res
	return rec, nil
}
