package chat

import (
	"github.com/intakeflow/intakeflow/internal/assess"
	"github.com/intakeflow/intakeflow/internal/intent"
	"github.com/intakeflow/intakeflow/internal/routing"
	"github.com/intakeflow/intakeflow/internal/scoring"
	"github.com/intakeflow/intakeflow/internal/session"
)

// AIData is the analysis block attached to every chat response. lead_score
// is the authoritative post-correction value; candidate pattern scores stay
// internal.
type AIData struct {
	LeadScore        int     `json:"lead_score"`
	DetectedIntent   string  `json:"detected_intent"`
	IntentConfidence float64 `json:"intent_confidence"`
	CaseStrength     string  `json:"case_strength"`
	AttorneyMatch    string  `json:"attorney_match"`
	AttorneyReason   string  `json:"attorney_reason"`
	Priority         string  `json:"priority"`
	PracticeArea     string  `json:"practice_area"`
	CaseType         string  `json:"case_type"`
	Urgency          string  `json:"urgency"`
	ValueRange       string  `json:"value_range"`
	Confidence       float64 `json:"confidence"`
	Trajectory       string  `json:"trajectory"`
	Reasoning        string  `json:"reasoning"`
}

// Response is the external payload for one processed turn.
type Response struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
	Stage     string `json:"stage"`
	AIData    AIData `json:"aiData"`
}

// assemble composes the response payload from the pipeline outputs. Pure
// composition; every decision was already made upstream.
func assemble(sessionID string, sess *session.Session, detected intent.Result, scored scoring.Result, a assess.Assessment, tier session.TierAssignment, reply string) *Response {
	return &Response{
		Response:  reply,
		SessionID: sessionID,
		Stage:     string(sess.Stage),
		AIData: AIData{
			LeadScore:        sess.LeadScore,
			DetectedIntent:   detected.Intent,
			IntentConfidence: detected.Confidence,
			CaseStrength:     a.Strength,
			AttorneyMatch:    string(tier.Tier),
			AttorneyReason:   tier.Reasoning,
			Priority:         routing.Priority(tier),
			PracticeArea:     practiceArea(tier, detected, a),
			CaseType:         scored.CaseType,
			Urgency:          scored.Urgency,
			ValueRange:       scored.ValueRange,
			Confidence:       scored.Confidence,
			Trajectory:       scored.Trajectory,
			Reasoning:        scored.Reasoning,
		},
	}
}

// practiceArea prefers the routing decision, then the classifier, then the
// matched pattern.
func practiceArea(tier session.TierAssignment, detected intent.Result, a assess.Assessment) string {
	if tier.PracticeArea != "" {
		return tier.PracticeArea
	}
	if detected.PracticeArea != "" {
		return detected.PracticeArea
	}
	return a.PracticeArea
}

// fallbackResponse is the last resort used by the HTTP layer when the
// pipeline fails unexpectedly: a coherent apology with a minimal,
// well-formed analysis block.
func fallbackResponse(sessionID string) *Response {
	return &Response{
		Response:  "I'm sorry, something went wrong on our end. Could you repeat that? If it's urgent, please call our office directly.",
		SessionID: sessionID,
		Stage:     string(session.StageInitial),
		AIData: AIData{
			DetectedIntent:   intent.GeneralInfo,
			IntentConfidence: 0.0,
			CaseStrength:     "Unknown",
			Priority:         "standard",
			Urgency:          "Low",
			Trajectory:       "stable",
			Reasoning:        "Pipeline failure; no analysis available for this turn.",
		},
	}
}
