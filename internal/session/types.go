package session

import (
	"time"

	"github.com/intakeflow/intakeflow/internal/patterns"
)

// Role identifies who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Stage is the conversation qualification stage.
type Stage string

const (
	StageInitial           Stage = "initial"
	StageGathering         Stage = "information_gathering"
	StageQualification     Stage = "case_qualification"
	StageQualifiedLead     Stage = "qualified_lead"
	StageConsultationReady Stage = "consultation_ready"
)

// Message is one transcript entry. Immutable once appended.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// IntentRecord is one entry in a session's bounded intent history.
type IntentRecord struct {
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// maxIntentHistory bounds the per-session intent ring, most-recent-last.
const maxIntentHistory = 5

// TierAssignment is the current routing decision for a session. Its tier
// rank is non-decreasing over the session's lifetime.
type TierAssignment struct {
	Tier           patterns.Tier `json:"tier"`
	Reasoning      string        `json:"reasoning"`
	Urgency        string        `json:"urgency"`
	PracticeArea   string        `json:"practice_area"`
	Specialization string        `json:"specialization,omitempty"`
}

// Session is the per-conversation mutable state. The authoritative lead
// score is only written through Store.RaiseScore and Store.CorrectScore.
type Session struct {
	ID            string         `json:"id"`
	ClientID      string         `json:"client_id"`
	LeadScore     int            `json:"lead_score"`
	Stage         Stage          `json:"stage"`
	Routing       TierAssignment `json:"routing"`
	IntentHistory []IntentRecord `json:"intent_history"`
	Messages      []Message      `json:"messages"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Transcript returns the whole conversation joined into one text, oldest
// first, with text appended last when non-empty. The scorer and matcher
// always evaluate this superset, which is what makes re-scoring monotonic.
func (s *Session) Transcript(text string) string {
	out := ""
	for _, m := range s.Messages {
		if m.Role != RoleUser {
			continue
		}
		if out != "" {
			out += " "
		}
		out += m.Content
	}
	if text != "" {
		if out != "" {
			out += " "
		}
		out += text
	}
	return out
}

// RecordIntent appends to the bounded intent history, dropping the oldest
// entry past the cap.
func (s *Session) RecordIntent(rec IntentRecord) {
	s.IntentHistory = append(s.IntentHistory, rec)
	if len(s.IntentHistory) > maxIntentHistory {
		s.IntentHistory = s.IntentHistory[len(s.IntentHistory)-maxIntentHistory:]
	}
}

// NextStage applies the stage transition rule evaluated after every message.
// consultation_ready is terminal and only reachable once past initial.
func NextStage(current Stage, intent string, score int) Stage {
	if current == "" {
		current = StageInitial
	}
	if current == StageConsultationReady {
		return current
	}

	switch {
	case intent == "CRIMINAL_DEFENSE":
		return StageQualification
	case score >= 70:
		return StageQualifiedLead
	case score >= 40:
		return StageQualification
	case (intent == "CONSULTATION_REQUEST" || intent == "APPOINTMENT_SCHEDULING") && current != StageInitial:
		return StageConsultationReady
	case current == StageInitial:
		return StageGathering
	default:
		return current
	}
}
