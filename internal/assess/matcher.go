package assess

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/intakeflow/intakeflow/internal/patterns"
	"github.com/intakeflow/intakeflow/internal/session"
)

// matchThreshold is the minimum fraction of a pattern's keyword set that
// must be present in the transcript for the pattern to be considered.
const matchThreshold = 0.3

// Assessment is the advisory output of the pattern matcher. CandidateScore
// feeds tier recommendation and template selection; it never overwrites the
// authoritative lead score. The one exception is the bounded contradiction
// correction, reported via Contradiction and CorrectedScore.
type Assessment struct {
	PatternID      string        `json:"pattern_id"`
	Description    string        `json:"description"`
	Matched        bool          `json:"matched"`
	MatchFraction  float64       `json:"match_fraction"`
	CandidateScore int           `json:"candidate_score"` // clamped to [20,100]
	Strength       string        `json:"strength"`
	Attorney       patterns.Tier `json:"attorney"`
	PracticeArea   string        `json:"practice_area"`
	Urgency        string        `json:"urgency"`
	ValueRange     string        `json:"value_range"`
	Contradiction  string        `json:"contradiction,omitempty"`
	CorrectedScore int           `json:"corrected_score,omitempty"`
	Reasoning      string        `json:"reasoning"`
}

// Matcher assesses case strength against the shared pattern library.
type Matcher struct {
	lib   *patterns.Library
	store *session.Store
}

// NewMatcher creates a matcher over the shared pattern library.
func NewMatcher(lib *patterns.Library, store *session.Store) *Matcher {
	return &Matcher{lib: lib, store: store}
}

// Assess extracts the transcript's keyword set, selects the best-matching
// pattern and computes its multiplied candidate score. When a contradiction
// pair is present across the transcript, the authoritative score is
// corrected downward, bounded at 80% of its current value; otherwise the
// authoritative score is left untouched.
func (m *Matcher) Assess(ctx context.Context, message string, sess *session.Session) Assessment {
	transcript := strings.ToLower(sess.Transcript(message))
	keywords := m.lib.ExtractKeywords(transcript)

	a := m.match(keywords)

	if pair := m.detectContradiction(transcript, keywords); pair != "" {
		a.Contradiction = pair
		corrected, err := m.store.CorrectScore(ctx, sess.ID, a.CandidateScore)
		if err != nil {
			log.Printf("assess: contradiction correction for %s failed: %v", sess.ID, err)
		} else {
			log.Printf("assess: contradiction %q in session %s, score %d -> %d (floor 80%%)",
				pair, sess.ID, sess.LeadScore, corrected)
			sess.LeadScore = corrected
			a.CorrectedScore = corrected
			a.Reasoning += fmt.Sprintf(" Contradiction (%s) detected; score corrected to %d.", pair, corrected)
		}
	}

	return a
}

// MatchTranscript runs pattern selection over a transcript with no session
// context and no side effects. Used by read-only tooling.
func MatchTranscript(lib *patterns.Library, transcript string) Assessment {
	m := Matcher{lib: lib}
	return m.match(lib.ExtractKeywords(strings.ToLower(transcript)))
}

// match scores every pattern by keyword coverage and keeps the best one
// above the threshold. A strictly-greater comparison preserves the tie
// break: the first-declared pattern wins.
func (m *Matcher) match(keywords []string) Assessment {
	have := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		have[k] = true
	}

	var best *patterns.CasePattern
	bestFraction := 0.0
	for i := range m.lib.Patterns {
		p := &m.lib.Patterns[i]
		matched := 0
		for _, kw := range p.Keywords {
			if have[kw] {
				matched++
			}
		}
		fraction := float64(matched) / float64(len(p.Keywords))
		if fraction < matchThreshold {
			continue
		}
		if fraction > bestFraction {
			best = p
			bestFraction = fraction
		}
	}

	if best == nil {
		return Assessment{
			PatternID:      "general-inquiry",
			Description:    "general inquiry",
			CandidateScore: 20,
			Strength:       "Weak",
			Attorney:       patterns.TierJunior,
			PracticeArea:   "general",
			Urgency:        "low",
			ValueRange:     m.lib.CaseValueRange(20),
			Reasoning:      "No case pattern matched above threshold.",
		}
	}

	score := float64(best.BaseScore)
	var applied []string
	for kw, factor := range best.Multipliers {
		if have[kw] {
			score *= factor
			applied = append(applied, kw)
		}
	}
	final := clampCandidate(int(math.Round(score)))

	reasoning := fmt.Sprintf("Pattern %q matched %.0f%% of keywords, base %d.",
		best.Description, bestFraction*100, best.BaseScore)
	if len(applied) > 0 {
		reasoning += fmt.Sprintf(" Multipliers applied: %s.", strings.Join(applied, ", "))
	}

	return Assessment{
		PatternID:      best.ID,
		Description:    best.Description,
		Matched:        true,
		MatchFraction:  bestFraction,
		CandidateScore: final,
		Strength:       best.Strength,
		Attorney:       best.Attorney,
		PracticeArea:   best.PracticeArea,
		Urgency:        best.Urgency,
		ValueRange:     m.lib.CaseValueRange(final),
		Reasoning:      reasoning,
	}
}

// detectContradiction reports the name of the first contradiction pair with
// both sides present across the transcript, or "".
func (m *Matcher) detectContradiction(transcript string, keywords []string) string {
	have := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		have[k] = true
	}
	present := func(term string) bool {
		return have[term] || strings.Contains(transcript, term)
	}

	for _, pair := range m.lib.Contradictions {
		positive, negative := false, false
		for _, t := range pair.Positive {
			if present(t) {
				positive = true
				break
			}
		}
		for _, t := range pair.Negative {
			if present(t) {
				negative = true
				break
			}
		}
		if positive && negative {
			return pair.Name
		}
	}
	return ""
}

func clampCandidate(n int) int {
	if n < 20 {
		return 20
	}
	if n > 100 {
		return 100
	}
	return n
}
