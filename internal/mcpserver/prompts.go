package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(&mcp.Prompt{
		Name:        "sql_query_assistant",
		Description: "Generate a prompt for helping with SQL query creation.",
		Arguments: []*mcp.PromptArgument{
			{Name: "query_description", Description: "Description of what you want to query", Required: true},
		},
	}, func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return promptResult(sqlQueryAssistantPrompt(req.Params.Arguments["query_description"])), nil
	})

	s.mcpServer.AddPrompt(&mcp.Prompt{
		Name:        "database_analysis_task",
		Description: "Generate a prompt for database analysis tasks.",
		Arguments: []*mcp.PromptArgument{
			{Name: "analysis_goal", Description: "What you want to analyze in the database", Required: true},
		},
	}, func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return promptResult(databaseAnalysisTaskPrompt(req.Params.Arguments["analysis_goal"])), nil
	})
}

func sqlQueryAssistantPrompt(queryDescription string) string {
	return fmt.Sprintf(`I need help creating a SQL query for the following request:

%s

Please help me by:
1. Understanding what data I need to retrieve
2. Suggesting the appropriate SQL query
3. Explaining how the query works

I have access to the database schema and can execute queries to test them.`, queryDescription)
}

func databaseAnalysisTaskPrompt(analysisGoal string) string {
	return fmt.Sprintf(`I need to perform a database analysis with the following goal:

%s

Please help me by:
1. Understanding what tables and data are relevant
2. Suggesting the queries needed to gather the required information
3. Helping me interpret the results

I can explore the database schema, execute queries, and analyze the data.`, analysisGoal)
}

func promptResult(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}
