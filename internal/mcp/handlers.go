package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/intakeflow/intakeflow/internal/assess"
	"github.com/intakeflow/intakeflow/internal/session"
)

// handleGetLead returns one conversation's intake state.
func (s *Server) handleGetLead(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading session failed: %v", err)), nil
	}
	if sess == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no conversation with id %q", sessionID)), nil
	}

	return mcp.NewToolResultText(formatLead(sess)), nil
}

// handleListLeads lists sessions at or above the requested score.
func (s *Server) handleListLeads(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minScore := request.GetInt("min_score", 0)
	if minScore < 0 {
		minScore = 0
	}

	leads, err := s.sessions.ListLeads(ctx, minScore)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing leads failed: %v", err)), nil
	}
	if len(leads) == 0 {
		return mcp.NewToolResultText("No leads at or above that score yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d lead(s), best first:\n\n", len(leads))
	for _, l := range leads {
		fmt.Fprintf(&b, "- %s (client %s): score %d, stage %s, tier %s, urgency %s, %d message(s)\n",
			l.SessionID, l.ClientID, l.LeadScore, l.Stage, l.Tier, l.Urgency, l.Messages)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleAssessMessage runs the rule tables over a standalone message. No
// session is read or written.
func (s *Server) handleAssessMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	lower := strings.ToLower(message)

	var b strings.Builder
	total := 0
	for i := range s.lib.Categories {
		c := &s.lib.Categories[i]
		if c.Matches(lower) {
			fmt.Fprintf(&b, "- category %s fired: +%d\n", c.Name, c.Points)
			total += c.Points
		}
	}
	if total == 0 {
		b.WriteString("- no score categories fired\n")
	} else {
		fmt.Fprintf(&b, "Total category points: %d\n", total)
	}

	a := assess.MatchTranscript(s.lib, message)
	fmt.Fprintf(&b, "\nBest pattern: %s (%s)\nCandidate score: %d\nStrength: %s\nSuggested tier: %s\nValue range: %s\n%s\n",
		a.PatternID, a.Description, a.CandidateScore, a.Strength, a.Attorney, a.ValueRange, a.Reasoning)

	return mcp.NewToolResultText(b.String()), nil
}

func formatLead(sess *session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation %s (client %s)\n", sess.ID, sess.ClientID)
	fmt.Fprintf(&b, "Lead score: %d\nStage: %s\n", sess.LeadScore, sess.Stage)
	if sess.Routing.Tier != "" {
		fmt.Fprintf(&b, "Tier: %s (%s, urgency %s)\n", sess.Routing.Tier, sess.Routing.Reasoning, sess.Routing.Urgency)
	}
	if len(sess.IntentHistory) > 0 {
		b.WriteString("Recent intents:\n")
		for _, rec := range sess.IntentHistory {
			fmt.Fprintf(&b, "- %s (%.2f)\n", rec.Intent, rec.Confidence)
		}
	}
	if len(sess.Messages) > 0 {
		fmt.Fprintf(&b, "Transcript (%d messages):\n", len(sess.Messages))
		for _, m := range sess.Messages {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}
	return b.String()
}
