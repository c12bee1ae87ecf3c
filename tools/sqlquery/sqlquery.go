// Package sqlquery is the "sqlite_query_tool": it runs a SQL statement against a
// sqlstore.Store and returns the rows as text.
package sqlquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
	"github.com/vishnuvardhanreddy31/research-agent/sqlstore"
)

// Name is the tool name the model calls.
const Name = "sqlite_query_tool"

// Querier runs a statement and returns its rows. QueryReadOnly must refuse any
// statement that writes. *sqlstore.Store implements it.
type Querier interface {
	Query(ctx context.Context, q string) (*sqlstore.Rows, error)
	QueryReadOnly(ctx context.Context, q string) (*sqlstore.Rows, error)
}

// Tool queries the database. Create it with New.
type Tool struct {
	db       Querier
	readOnly bool
}

// Option configures the Tool.
type Option func(*Tool)

// WithReadOnly switches read-only mode, in which SQLite itself refuses writes.
// It is on by default.
func WithReadOnly(on bool) Option {
	return func(t *Tool) { t.readOnly = on }
}

// New creates the tool over db.
func New(db Querier, opts ...Option) *Tool {
	t := &Tool{db: db, readOnly: true}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Tool) Name() string { return Name }

func (t *Tool) Description() string {
	return "Executes a SQL query against the SQLite database and returns the results. " +
		"Input should be a valid SQL SELECT statement."
}

func (t *Tool) InputDescription() string {
	return "The SQL statement to execute"
}

// Call runs input and formats the result. SQL errors are returned as output text
// ("Database error: ...") so the model can correct its query; only a canceled
// context is a Go error.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	if t.db == nil {
		return "Database not initialized.", nil
	}

	query := t.db.Query
	if t.readOnly {
		query = t.db.QueryReadOnly
	}

	rows, err := query(ctx, strings.TrimSpace(input))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return databaseError(err), nil
	}
	return rows.Format(), nil
}

func databaseError(err error) string {
	return fmt.Sprintf("Database error: %v", err)
}

var (
	_ researchagent.Tool           = (*Tool)(nil)
	_ researchagent.InputDescriber = (*Tool)(nil)
	_ tools.Tool                   = (*Tool)(nil)
	_ Querier                      = (*sqlstore.Store)(nil)
)
