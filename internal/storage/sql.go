package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/deusflow/ideafeed/internal/idea"
	"github.com/deusflow/ideafeed/internal/logger"
)

// DefaultTable is used when no table name is configured.
const DefaultTable = "content_ideas"

// Dialect selects the SQL driver and its placeholder and type syntax.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d Dialect) columnType(k idea.Kind) string {
	switch k {
	case idea.KindNumber:
		if d == Postgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	case idea.KindDate:
		if d == Postgres {
			return "DATE"
		}
		return "TEXT"
	default:
		return "TEXT"
	}
}

// SQL stores ideas as rows of a single table. Column names match the Notion
// property names so both backends share idea.Schema.
type SQL struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// OpenSQL connects and pings the database.
func OpenSQL(ctx context.Context, dialect Dialect, dsn, table string) (*SQL, error) {
	if dialect != Postgres && dialect != SQLite {
		return nil, fmt.Errorf("unsupported SQL dialect %q", dialect)
	}
	if table == "" {
		table = DefaultTable
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if dialect == SQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}

	logger.Debug("SQL store connected", "dialect", dialect, "table", table)
	return &SQL{db: db, dialect: dialect, table: table}, nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

// EnsureTable creates the table with every idea.Schema column if it is missing.
// An existing table is left as is, whatever its columns.
func (s *SQL) EnsureTable(ctx context.Context) error {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdent(s.table))
	if s.dialect == Postgres {
		b.WriteString("\tid BIGSERIAL PRIMARY KEY,\n")
		b.WriteString("\tcreated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()")
	} else {
		b.WriteString("\tid INTEGER PRIMARY KEY AUTOINCREMENT,\n")
		b.WriteString("\tcreated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP")
	}
	for _, c := range idea.Schema {
		fmt.Fprintf(&b, ",\n\t%s %s", quoteIdent(c.Name), s.dialect.columnType(c.Kind))
	}
	b.WriteString("\n)")

	if _, err := s.db.ExecContext(ctx, b.String()); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// Columns returns the table's column names.
func (s *SQL) Columns(ctx context.Context) (map[string]bool, error) {
	var query string
	if s.dialect == Postgres {
		query = `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`
	} else {
		query = `SELECT name FROM pragma_table_info(?)`
	}

	rows, err := s.db.QueryContext(ctx, query, s.table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", s.table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s not found", s.table)
	}
	return cols, nil
}

// RecentNames returns up to limit non-empty names, newest row first.
func (s *SQL) RecentNames(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT %[1]s FROM %[2]s WHERE %[1]s IS NOT NULL AND %[1]s <> '' ORDER BY created_at DESC, id DESC LIMIT %[3]s`,
		quoteIdent(idea.ColName), quoteIdent(s.table), s.dialect.placeholder(1),
	)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Insert writes one row. Columns not present in the table must already have
// been removed with idea.Record.Restrict.
func (s *SQL) Insert(ctx context.Context, rec idea.Record) error {
	names := rec.Names()
	if len(names) == 0 {
		return errors.New("record has no columns")
	}

	cols := make([]string, len(names))
	marks := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		cols[i] = quoteIdent(name)
		marks[i] = s.dialect.placeholder(i + 1)
		args[i] = sqlValue(rec[name])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert %q: %w", rec[idea.ColName].Text, err)
	}
	return nil
}

func sqlValue(v idea.Value) any {
	switch v.Kind {
	case idea.KindNumber:
		return v.Number
	case idea.KindDate:
		return v.Date.Format("2006-01-02")
	default:
		return v.Text
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
