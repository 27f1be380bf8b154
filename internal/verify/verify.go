// Package verify applies generated table definitions to a database to check
// that the database accepts them.
//
// The statements run inside a transaction that is rolled back unless the
// Verifier is created with Commit. MySQL commits DDL implicitly, so verify a
// MySQL schema against a scratch database.
package verify

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/dsg/compiler/gen"
)

// MemoryDSN is the connection string of a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// drivers maps the providers to their database/sql driver names.
var drivers = map[gen.Provider]string{
	gen.ProviderPostgres: "postgres",
	gen.ProviderMySQL:    "mysql",
	gen.ProviderSQLite:   "sqlite",
}

// tablesQuery lists the base tables of the current schema.
var tablesQuery = map[gen.Provider]string{
	gen.ProviderPostgres: "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'",
	gen.ProviderMySQL:    "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'",
	gen.ProviderSQLite:   "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
}

// Verifier runs table definitions against a database.
type Verifier struct {
	db       *sql.DB
	provider gen.Provider
	commit   bool
}

// Option configures a Verifier.
type Option func(*Verifier)

// Commit keeps the applied statements instead of rolling them back.
func Commit() Option {
	return func(v *Verifier) { v.commit = true }
}

// New returns a Verifier for an open database of the given provider.
func New(db *sql.DB, provider gen.Provider, opts ...Option) (*Verifier, error) {
	if _, ok := drivers[provider]; !ok {
		return nil, fmt.Errorf("verify: unsupported database provider %q", provider)
	}
	v := &Verifier{db: db, provider: provider}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Open connects to the database of the provider. An empty DSN opens an
// in-memory SQLite database; other providers need a DSN.
func Open(ctx context.Context, provider gen.Provider, dsn string, opts ...Option) (*Verifier, error) {
	driver, ok := drivers[provider]
	if !ok {
		return nil, fmt.Errorf("verify: unsupported database provider %q", provider)
	}
	if dsn == "" {
		if provider != gen.ProviderSQLite {
			return nil, fmt.Errorf("verify: a connection string is required for %s", provider)
		}
		dsn = MemoryDSN
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("verify: open %s: %w", provider, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("verify: connect %s: %w", provider, err)
	}
	if provider == gen.ProviderSQLite {
		// Every connection to :memory: is a new database.
		db.SetMaxOpenConns(1)
	}
	return New(db, provider, opts...)
}

// Close closes the database.
func (v *Verifier) Close() error {
	return v.db.Close()
}

// Report is the outcome of a verification.
type Report struct {
	Provider   gen.Provider
	Statements int
	// Tables are the tables found after the statements ran, sorted.
	Tables []string
}

// Missing returns the names in want that are not in the report.
func (r *Report) Missing(want []string) []string {
	var missing []string
	for _, name := range want {
		if _, found := slices.BinarySearch(r.Tables, name); !found {
			missing = append(missing, name)
		}
	}
	return missing
}

// Statements splits a script of statements terminated by ";\n".
func Statements(ddl string) []string {
	var stmts []string
	for _, s := range strings.Split(ddl, ";\n") {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ";"))
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// Verify runs the statements of ddl and lists the resulting tables.
func (v *Verifier) Verify(ctx context.Context, ddl string) (_ *Report, err error) {
	stmts := Statements(ddl)
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("verify: begin: %w", err)
	}
	defer func() {
		if err != nil || !v.commit {
			if rerr := tx.Rollback(); rerr != nil && err == nil {
				err = fmt.Errorf("verify: rollback: %w", rerr)
			}
		}
	}()
	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("verify: statement %d: %w", i+1, err)
		}
	}
	tables, err := v.tables(ctx, tx)
	if err != nil {
		return nil, err
	}
	if v.commit {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("verify: commit: %w", err)
		}
	}
	return &Report{Provider: v.provider, Statements: len(stmts), Tables: tables}, nil
}

func (v *Verifier) tables(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, tablesQuery[v.provider])
	if err != nil {
		return nil, fmt.Errorf("verify: list tables: %w", err)
	}
	defer rows.Close()
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("verify: scan table: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("verify: list tables: %w", err)
	}
	slices.Sort(tables)
	return tables, nil
}
