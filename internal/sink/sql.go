package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/KaramelBytes/tuplegen/internal/dataset"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

var sqlOpen = sql.Open

// OverrideSQLOpen swaps the function used to open database handles and
// returns a restore func. Intended for tests.
func OverrideSQLOpen(fn func(driverName, dsn string) (*sql.DB, error)) func() {
	prev := sqlOpen
	sqlOpen = fn
	return func() { sqlOpen = prev }
}

type dialect struct {
	name   string
	driver string
	// placeholder returns the bind marker for the 1-based argument i.
	placeholder func(i int) string
}

var (
	sqliteDialect   = dialect{name: NameSQLite, driver: "sqlite", placeholder: func(int) string { return "?" }}
	postgresDialect = dialect{name: NamePostgres, driver: "pgx", placeholder: func(i int) string { return fmt.Sprintf("$%d", i) }}
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLSink replaces the rows of one SQL table per dataset table.
// The first column of each table is its primary key.
type SQLSink struct {
	db     *sql.DB
	d      dialect
	prefix string
	target string
}

// OpenSQLite opens (or creates) a SQLite database file.
func OpenSQLite(path, prefix string) (*SQLSink, error) {
	if path == "" {
		path = "tuplegen.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sqlOpen(sqliteDialect.driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newSQLSink(db, sqliteDialect, prefix, path)
}

// OpenPostgres connects to Postgres through pgx and verifies the connection.
func OpenPostgres(ctx context.Context, dsn, prefix string) (*SQLSink, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn required")
	}
	db, err := sqlOpen(postgresDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLSink(db, postgresDialect, prefix, redactDSN(dsn))
}

func newSQLSink(db *sql.DB, d dialect, prefix, target string) (*SQLSink, error) {
	if prefix != "" && !identRe.MatchString(prefix) {
		_ = db.Close()
		return nil, fmt.Errorf("invalid table prefix %q", prefix)
	}
	return &SQLSink{db: db, d: d, prefix: prefix, target: target}, nil
}

func (s *SQLSink) Name() string { return s.d.name }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *SQLSink) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *SQLSink) Close() error { return s.db.Close() }

// Write recreates each table with the dataset's columns and fills it, all in one transaction.
func (s *SQLSink) Write(ctx context.Context, ds *dataset.Dataset) (_ []string, retErr error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	for _, t := range ds.Tables {
		if err := s.checkIdents(t); err != nil {
			return nil, err
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	out := make([]string, 0, len(ds.Tables))
	for _, t := range ds.Tables {
		name := s.prefix + t.Name
		// Kinds share table names but not columns, so the table is rebuilt.
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
			return nil, fmt.Errorf("drop %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, createTableSQL(name, t.Columns)); err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
		if err := s.insertRows(ctx, tx, name, t); err != nil {
			return nil, err
		}
		out = append(out, fmt.Sprintf("%s:%s/%s", s.d.name, s.target, name))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

func (s *SQLSink) insertRows(ctx context.Context, tx *sql.Tx, name string, t dataset.Table) error {
	if len(t.Rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, s.insertSQL(name, t.Columns))
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", name, err)
	}
	defer func() { _ = stmt.Close() }()
	args := make([]any, len(t.Columns))
	for i, row := range t.Rows {
		for j := range args {
			args[j] = int64(row[j])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", name, i, err)
		}
	}
	return nil
}

func (s *SQLSink) checkIdents(t dataset.Table) error {
	if !identRe.MatchString(s.prefix + t.Name) {
		return fmt.Errorf("invalid table name %q", s.prefix+t.Name)
	}
	for _, c := range t.Columns {
		if !identRe.MatchString(c) {
			return fmt.Errorf("invalid column name %q in %s", c, t.Name)
		}
	}
	return nil
}

func createTableSQL(name string, cols []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quoteIdent(name))
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(c))
		if i == 0 {
			b.WriteString(" BIGINT PRIMARY KEY")
		} else {
			b.WriteString(" BIGINT NOT NULL")
		}
	}
	b.WriteString(")")
	return b.String()
}

func (s *SQLSink) insertSQL(name string, cols []string) string {
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		marks[i] = s.d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(name), strings.Join(quoted, ", "), strings.Join(marks, ", "))
}

func quoteIdent(s string) string { return `"` + s + `"` }

// redactDSN hides the password of a URL-style DSN.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	userinfo := dsn[scheme+3 : at]
	if colon := strings.Index(userinfo, ":"); colon >= 0 {
		return dsn[:scheme+3] + userinfo[:colon] + ":****" + dsn[at:]
	}
	return dsn
}
