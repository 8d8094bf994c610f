package source

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bureau-etl/internal/model"
)

// querier is the subset of pgxpool.Pool the source needs; tests substitute
// a pgxmock pool.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresSource implements RowSource over a pgx connection pool.
type PostgresSource struct {
	db querier
	b  builder
}

// NewPostgres connects to the report database and prepares the query for
// the given shape. Connection failure here is the job's one fatal error
// class; everything after this degrades.
func NewPostgres(ctx context.Context, dsn string, q Query) (*PostgresSource, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "source: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "source: ping")
	}

	s := &PostgresSource{db: pool, b: builder{q: q}}
	s.b.primaryCols = s.introspectPrimary(ctx)
	return s, nil
}

// newWithDB wires an existing querier; used by tests.
func newWithDB(db querier, q Query) *PostgresSource {
	return &PostgresSource{db: db, b: builder{q: q}}
}

// introspectPrimary loads the primary table's column names so override
// columns can be aliased to the table that has them. Failure degrades to
// secondary-table aliasing for all optional columns.
func (s *PostgresSource) introspectPrimary(ctx context.Context) map[string]struct{} {
	rows, err := s.db.Query(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_name = $1",
		s.b.q.PrimaryTable)
	if err != nil {
		zap.L().Warn("source: primary table introspection failed", zap.Error(err))
		return nil
	}
	defer rows.Close()

	cols := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		cols[name] = struct{}{}
	}
	return cols
}

func (s *PostgresSource) Count(ctx context.Context) (int64, error) {
	sql, args := s.b.countSQL()
	var n int64
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "source: count rows")
	}
	return n, nil
}

func (s *PostgresSource) Page(ctx context.Context, offset, limit int) ([]model.SourceRow, error) {
	sql, args := s.b.pageSQL(offset, limit)
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "source: page query")
	}
	defer rows.Close()

	var out []model.SourceRow
	for rows.Next() {
		var r model.SourceRow
		if err := rows.Scan(&r.CustomerID, &r.RawData, &r.RecordDate, &r.PAN, &r.Mobile); err != nil {
			return nil, eris.Wrap(err, "source: scan row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "source: iterate rows")
}

func (s *PostgresSource) Close() {
	s.db.Close()
}
