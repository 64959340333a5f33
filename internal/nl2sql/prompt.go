package nl2sql

import "fmt"

// BuildPrompt embeds the schema text and the user's request verbatim into the
// fixed translation template. Nothing is escaped or validated here: arbitrary
// user text goes straight into the prompt, which leaves the model open to
// prompt injection. That is a known gap of this design, not a guarantee.
func BuildPrompt(schemaText, naturalQuery string) string {
	return fmt.Sprintf(`You are a SQL expert. Convert the following natural language query to SQL.

Database Schema:
%s

Natural Language Query: %s

Return only the SQL query without any explanation or formatting:`, schemaText, naturalQuery)
}
