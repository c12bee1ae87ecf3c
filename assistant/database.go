package assistant

import (
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
	"github.com/vishnuvardhanreddy31/research-agent/tools/sqlquery"
)

// DatabaseResponse is the database assistant's answer.
type DatabaseResponse struct {
	Result    string   `json:"result" description:"The query result"`
	ToolsUsed []string `json:"tools_used" description:"Names of the tools used"`
}

// DatabaseExample is shown to the model in the format instructions.
var DatabaseExample = DatabaseResponse{
	Result:    "Columns: name\n('Alice',)",
	ToolsUsed: []string{"sqlite_query_tool"},
}

// DatabaseSystemPrompt is the database assistant's system prompt template.
const DatabaseSystemPrompt = `You are a SQLite database query assistant.
Your primary function is to execute SQL queries against a SQLite database using the ` + "`sqlite_query_tool`" + `.
The database has a table named 'users' with columns: 'id', 'name', 'email'.

Users will provide queries in the following template: "Query database for: [SQL query]".
You MUST extract the SQL query from this template and pass it directly to the ` + "`sqlite_query_tool`" + `.
For example, if the user says "Query database for: SELECT * FROM users WHERE name = 'Alice'", you should call ` + "`sqlite_query_tool`" + ` with the input "SELECT * FROM users WHERE name = 'Alice'".

Always answer the user query by providing the result from the ` + "`sqlite_query_tool`" + ` wrapped in the specified format.
Provide no other text outside of the specified format.
{{.format_instructions}}`

// Database answers questions about the users table with a DatabaseResponse.
type Database = Assistant[DatabaseResponse]

// NewDatabase builds the database assistant over db.
func NewDatabase(model researchagent.Model, db sqlquery.Querier, opts ...Option) *Database {
	o := newOptions(opts)
	tool := sqlquery.New(db, sqlquery.WithReadOnly(o.sqlReadOnly))
	return newAssistant(model, []researchagent.Tool{tool}, DatabaseSystemPrompt, DatabaseExample, o)
}
