package scoring

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/intakeflow/intakeflow/internal/patterns"
	"github.com/intakeflow/intakeflow/internal/session"
)

// Result is the scorer's output for one message.
type Result struct {
	Score      int     `json:"score"`
	Reasoning  string  `json:"reasoning"`
	CaseType   string  `json:"case_type"`
	Urgency    string  `json:"urgency"` // Low / Medium / High
	ValueRange string  `json:"value_range"`
	Confidence float64 `json:"confidence"`
	Trajectory string  `json:"trajectory"` // stable / ascending
	Fallback   bool    `json:"fallback,omitempty"`
}

// Scorer owns the authoritative lead score. It is the only component that
// raises it; the bounded contradiction correction lives in the pattern
// matcher, not here.
type Scorer struct {
	lib   *patterns.Library
	store *session.Store
}

// NewScorer creates a scorer over the shared pattern library.
func NewScorer(lib *patterns.Library, store *session.Store) *Scorer {
	return &Scorer{lib: lib, store: store}
}

// Score evaluates every score category against the whole conversation
// (prior messages plus the new one) and raises the session's authoritative
// score by the points of each category that fires. Categories only add;
// re-evaluating a superset transcript can never un-apply one, so the score
// is monotonic non-decreasing by construction.
func (s *Scorer) Score(ctx context.Context, message string, sess *session.Session) Result {
	previous := sess.LeadScore
	fullText := strings.ToLower(sess.Transcript(message))

	candidate := previous
	var fired []string
	for i := range s.lib.Categories {
		c := &s.lib.Categories[i]
		if c.Matches(fullText) {
			candidate += c.Points
			fired = append(fired, fmt.Sprintf("%s: +%d", c.Name, c.Points))
		}
	}
	if candidate > 100 {
		candidate = 100
	}

	stored, err := s.store.RaiseScore(ctx, sess.ID, candidate)
	if err != nil {
		// Never guess on failure: report the previous score unchanged.
		log.Printf("scoring: persisting score for %s failed: %v", sess.ID, err)
		return s.fallback(previous, fullText)
	}
	sess.LeadScore = stored

	return Result{
		Score:      stored,
		Reasoning:  s.reasoning(previous, stored, fired),
		CaseType:   caseType(fullText),
		Urgency:    Urgency(stored),
		ValueRange: s.lib.LeadValueRange(stored),
		Confidence: 0.85,
		Trajectory: trajectory(previous, stored),
	}
}

func (s *Scorer) fallback(previous int, fullText string) Result {
	return Result{
		Score:      previous,
		Reasoning:  "Fallback scoring applied - maintaining current score",
		CaseType:   caseType(fullText),
		Urgency:    Urgency(previous),
		ValueRange: s.lib.LeadValueRange(previous),
		Confidence: 0.5,
		Trajectory: "stable",
		Fallback:   true,
	}
}

func (s *Scorer) reasoning(previous, final int, fired []string) string {
	if final == previous {
		return fmt.Sprintf("Lead score: %d/100. No new high-value factors detected. Trajectory: stable.", final)
	}
	return fmt.Sprintf("Lead score: %d/100 (increased by %d points: %s). Trajectory: ascending.",
		final, final-previous, strings.Join(fired, ", "))
}

// Urgency derives the urgency band from a score.
func Urgency(score int) string {
	switch {
	case score >= 80:
		return "High"
	case score >= 60:
		return "Medium"
	default:
		return "Low"
	}
}

// caseType applies the fixed precedence criminal > injury > family > general.
func caseType(fullText string) string {
	switch {
	case containsAny(fullText, "criminal", "arrested", "dui", "dwi"):
		return "Criminal Defense"
	case containsAny(fullText, "accident", "injury", "injured", "crash", "hurt"):
		return "Personal Injury"
	case containsAny(fullText, "divorce", "custody", "family"):
		return "Family Law"
	default:
		return "General"
	}
}

func trajectory(previous, final int) string {
	if final > previous {
		return "ascending"
	}
	return "stable"
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
