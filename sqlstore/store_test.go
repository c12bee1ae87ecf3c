package sqlstore

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSeeded(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Seed(context.Background()))
	return store
}

func TestStore_Query(t *testing.T) {
	store := openSeeded(t)

	type expected struct {
		output string
		err    string
	}

	tests := []struct {
		name     string
		input    string
		expected expected
	}{
		{
			name:  "all users",
			input: "SELECT * FROM users",
			expected: expected{output: "Columns: id, name, email\n" +
				"(1, 'Alice', 'alice@example.com')\n" +
				"(2, 'Bob', 'bob@example.com')\n" +
				"(3, 'Charlie', 'charlie@example.com')\n"},
		},
		{
			name:     "single column single row",
			input:    "SELECT name FROM users WHERE id = 1",
			expected: expected{output: "Columns: name\n('Alice',)\n"},
		},
		{
			name:     "no matching rows",
			input:    "SELECT * FROM users WHERE name = 'Zed'",
			expected: expected{output: NoResults},
		},
		{
			name:     "aggregate",
			input:    "SELECT COUNT(*) AS n FROM users",
			expected: expected{output: "Columns: n\n(3,)\n"},
		},
		{
			name:     "null and float",
			input:    "SELECT NULL AS a, 2.5 AS b, 2.0 AS c",
			expected: expected{output: "Columns: a, b, c\n(None, 2.5, 2.0)\n"},
		},
		{
			name:     "missing table",
			input:    "SELECT * FROM non_existent_table",
			expected: expected{err: "no such table: non_existent_table"},
		},
		{
			name:     "syntax error",
			input:    "SELEC name FROM users",
			expected: expected{err: "syntax error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := store.Query(context.Background(), tt.input)

			if tt.expected.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expected.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.output, rows.Format())
		})
	}
}

func TestStore_QueryReadOnly(t *testing.T) {
	store := openSeeded(t)

	type expected struct {
		output string
		err    string
	}

	tests := []struct {
		name     string
		input    string
		expected expected
	}{
		{
			name:     "replace is a function, not a write",
			input:    "SELECT replace(email, '@example.com', '') AS handle FROM users WHERE id = 1",
			expected: expected{output: "Columns: handle\n('alice',)\n"},
		},
		{
			name:     "read pragma",
			input:    "PRAGMA table_info(users)",
			expected: expected{output: "Columns: cid, name, type, notnull, dflt_value, pk\n" +
				"(0, 'id', 'INTEGER', 0, None, 1)\n" +
				"(1, 'name', 'TEXT', 1, None, 0)\n" +
				"(2, 'email', 'TEXT', 1, None, 0)\n"},
		},
		{
			name:     "delete",
			input:    "DELETE FROM users",
			expected: expected{err: "attempt to write a readonly database"},
		},
		{
			name:     "write hidden in a cte",
			input:    "WITH x AS (SELECT 1) UPDATE users SET name = 'x'",
			expected: expected{err: "attempt to write a readonly database"},
		},
		{
			name:     "stacked write",
			input:    "SELECT 1; DROP TABLE users",
			expected: expected{err: "attempt to write a readonly database"},
		},
		{
			name:     "temp table",
			input:    "CREATE TEMP TABLE scratch (x INTEGER)",
			expected: expected{err: "attempt to write a readonly database"},
		},
		{
			name:     "lifting query_only",
			input:    "PRAGMA query_only = OFF",
			expected: expected{err: "not authorized"},
		},
		{
			name:     "attach",
			input:    "ATTACH DATABASE ':memory:' AS other",
			expected: expected{err: "not authorized"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := store.QueryReadOnly(context.Background(), tt.input)

			if tt.expected.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expected.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.output, rows.Format())
		})
	}

	rows, err := store.Query(context.Background(), "SELECT COUNT(*) FROM users")
	require.NoError(t, err)
	assert.Equal(t, int64(len(SeedUsers)), rows.Values[0][0])
}

func TestStore_QueryReadOnly_RestoresWrites(t *testing.T) {
	store := openSeeded(t)

	_, err := store.QueryReadOnly(context.Background(), "DELETE FROM users")
	require.Error(t, err)

	_, err = store.Query(context.Background(), "DELETE FROM users WHERE id = 3")
	require.NoError(t, err)

	rows, err := store.QueryReadOnly(context.Background(), "SELECT COUNT(*) FROM users")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows.Values[0][0])
}

func TestStore_Seed_Idempotent(t *testing.T) {
	store := openSeeded(t)

	require.NoError(t, store.Seed(context.Background()))

	rows, err := store.Query(context.Background(), "SELECT COUNT(*) FROM users")
	require.NoError(t, err)
	assert.Equal(t, int64(len(SeedUsers)), rows.Values[0][0])
}

func TestStore_MemoryDatabaseSurvivesAcrossQueries(t *testing.T) {
	store := openSeeded(t)

	for range 5 {
		rows, err := store.Query(context.Background(), "SELECT name FROM users ORDER BY id")
		require.NoError(t, err)
		assert.Equal(t, 3, rows.Len())
	}
}

func TestStore_Closed(t *testing.T) {
	store, err := Open(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err = store.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = store.QueryReadOnly(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Seed(context.Background()), ErrClosed)
}

func TestStore_Query_CanceledContext(t *testing.T) {
	store := openSeeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Query(ctx, "SELECT * FROM users")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "nil", input: nil, expected: "None"},
		{name: "int64", input: int64(-7), expected: "-7"},
		{name: "whole float", input: 3.0, expected: "3.0"},
		{name: "large float", input: 1e16, expected: "1e+16"},
		{name: "small float", input: 0.00001, expected: "1e-05"},
		{name: "mid float", input: 1234567.0, expected: "1234567.0"},
		{name: "nan", input: math.NaN(), expected: "nan"},
		{name: "string", input: "Alice", expected: "'Alice'"},
		{name: "string with single quote", input: "O'Brien", expected: `"O'Brien"`},
		{name: "string with both quotes", input: `it's "x"`, expected: `'it\'s "x"'`},
		{name: "string with newline", input: "a\nb", expected: `'a\nb'`},
		{name: "control character", input: "a\x01", expected: `'a\x01'`},
		{name: "unicode", input: "café", expected: "'café'"},
		{name: "bytes", input: []byte("raw"), expected: "b'raw'"},
		{name: "bool", input: true, expected: "1"},
		{
			name:     "time",
			input:    time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
			expected: "'2024-03-01 12:30:00'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValue(tt.input))
		})
	}
}

func TestRows_Format_EmptyTuple(t *testing.T) {
	rows := &Rows{Columns: []string{}, Values: [][]any{{}}}
	assert.Equal(t, "Columns: \n()\n", rows.Format())

	var nilRows *Rows
	assert.Equal(t, NoResults, nilRows.Format())
}
