package mcp

import "github.com/mark3labs/mcp-go/mcp"

// getLeadTool defines the get_lead MCP tool.
var getLeadTool = mcp.NewTool("get_lead",
	mcp.WithDescription("Get a conversation's intake state: lead score, stage, tier assignment, intent history and transcript."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Conversation session id"),
	),
)

// listLeadsTool defines the list_leads MCP tool.
var listLeadsTool = mcp.NewTool("list_leads",
	mcp.WithDescription("List qualified leads, best first, with score, stage, tier and urgency."),
	mcp.WithNumber("min_score",
		mcp.Description("Minimum lead score to include (default 0)"),
	),
)

// assessMessageTool defines the assess_message MCP tool.
var assessMessageTool = mcp.NewTool("assess_message",
	mcp.WithDescription("Run the deterministic assessment rules over a message without touching any conversation: fired score categories, best-matching case pattern and candidate score."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("Message text to assess"),
	),
)
