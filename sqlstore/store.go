// Package sqlstore owns the SQLite database the database assistant queries.
//
// The store is an explicit handle rather than a process-wide connection: open it,
// seed it, hand it to the sqlquery tool, close it.
//
//	store, err := sqlstore.Open(ctx, sqlstore.MemoryDSN)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	if err := store.Seed(ctx); err != nil {
//	    return err
//	}
//	rows, err := store.Query(ctx, "SELECT name FROM users")
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("sqlstore: store is closed")

// Store is a SQLite database behind a single connection. An in-memory database
// lives exactly as long as that connection, so the pool never holds more than one.
// Queries are serialized on it.
type Store struct {
	db *sql.DB
}

// Open opens the database at dsn and checks that it is reachable.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %q: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping %q: %w", dsn, err)
	}
	return &Store{db: db}, nil
}

// SeedUsers are the rows Seed inserts into an empty users table.
var SeedUsers = []struct {
	Name  string
	Email string
}{
	{"Alice", "alice@example.com"},
	{"Bob", "bob@example.com"},
	{"Charlie", "charlie@example.com"},
}

const createUsers = `CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL
)`

// Seed creates the users table and fills it with SeedUsers in one transaction.
// A table that already has rows is left alone, so Seed can run more than once.
func (s *Store) Seed(ctx context.Context) error {
	if s.db == nil {
		return ErrClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, createUsers); err != nil {
		return fmt.Errorf("sqlstore: create users: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("sqlstore: count users: %w", err)
	}
	if count > 0 {
		return tx.Commit()
	}

	for _, u := range SeedUsers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (name, email) VALUES (?, ?)", u.Name, u.Email,
		); err != nil {
			return fmt.Errorf("sqlstore: insert %s: %w", u.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit seed: %w", err)
	}
	return nil
}

// Query runs q and reads the whole result set.
//
// Statements without a result set (INSERT, CREATE, ...) return Rows with no
// columns. Errors come straight from SQLite so callers can show them to the model.
func (s *Store) Query(ctx context.Context, q string) (*Rows, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	return readRows(ctx, s.db, q)
}

// QueryReadOnly runs q with SQLite refusing every write. The connection has
// PRAGMA query_only switched on and an authorizer that denies ATTACH, DETACH
// and any change to query_only. Both are lifted before the connection goes back
// to the pool.
func (s *Store) QueryReadOnly(ctx context.Context, q string) (rows *Rows, err error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	defer func() {
		if rerr := setReadOnly(context.WithoutCancel(ctx), conn, false); rerr != nil && err == nil {
			rows, err = nil, fmt.Errorf("sqlstore: restore writes: %w", rerr)
		}
	}()
	if err := setReadOnly(ctx, conn, true); err != nil {
		return nil, fmt.Errorf("sqlstore: enable read-only: %w", err)
	}

	return readRows(ctx, conn, q)
}

func setReadOnly(ctx context.Context, conn *sql.Conn, on bool) error {
	if !on {
		if err := registerAuthorizer(conn, nil); err != nil {
			return err
		}
		_, err := conn.ExecContext(ctx, "PRAGMA query_only = OFF")
		return err
	}
	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return err
	}
	return registerAuthorizer(conn, readOnlyAuthorizer)
}

func registerAuthorizer(conn *sql.Conn, fn func(int, string, string, string) int) error {
	return conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		c.RegisterAuthorizer(fn)
		return nil
	})
}

// readOnlyAuthorizer keeps a statement from lifting query_only or reaching
// other database files. Writes themselves are refused by query_only.
func readOnlyAuthorizer(op int, arg1, _, _ string) int {
	switch op {
	case sqlite3.SQLITE_ATTACH, sqlite3.SQLITE_DETACH:
		return sqlite3.SQLITE_DENY
	case sqlite3.SQLITE_PRAGMA:
		if strings.EqualFold(arg1, "query_only") {
			return sqlite3.SQLITE_DENY
		}
	}
	return sqlite3.SQLITE_OK
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func readRows(ctx context.Context, db queryer, q string) (*Rows, error) {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Rows{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		result.Values = append(result.Values, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Close releases the connection. An in-memory database is gone afterwards.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
