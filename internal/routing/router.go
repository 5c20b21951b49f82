package routing

import (
	"context"
	"fmt"
	"log"

	"github.com/intakeflow/intakeflow/internal/config"
	"github.com/intakeflow/intakeflow/internal/intent"
	"github.com/intakeflow/intakeflow/internal/patterns"
	"github.com/intakeflow/intakeflow/internal/session"
)

// Router maps the authoritative score and intent to a staffing tier. A
// session's tier rank only ever goes up; computed downgrades are suppressed
// and logged.
type Router struct {
	store *session.Store
}

// NewRouter creates a router backed by the session store.
func NewRouter(store *session.Store) *Router {
	return &Router{store: store}
}

// Route computes the tier for the current score and intent, then applies
// the upgrade-only comparison against the session's stored assignment. The
// winning assignment is persisted and returned.
func (r *Router) Route(ctx context.Context, score int, res intent.Result, sess *session.Session, t config.Thresholds) session.TierAssignment {
	proposed := calculate(score, res, t)

	existing := sess.Routing
	if existing.Tier != "" && patterns.TierRank(proposed.Tier) <= patterns.TierRank(existing.Tier) {
		if patterns.TierRank(proposed.Tier) < patterns.TierRank(existing.Tier) {
			log.Printf("routing: downgrade suppressed for %s (%s -> %s)", sess.ID, existing.Tier, proposed.Tier)
		}
		return existing
	}

	if err := r.store.UpdateRouting(ctx, sess.ID, proposed); err != nil {
		// Keep the in-memory decision; the next message will re-derive it.
		log.Printf("routing: persisting assignment for %s failed: %v", sess.ID, err)
	}
	sess.Routing = proposed
	return proposed
}

// calculate is the deterministic score-to-tier mapping with the criminal
// override on top.
func calculate(score int, res intent.Result, t config.Thresholds) session.TierAssignment {
	if res.Intent == intent.CriminalDefense {
		return session.TierAssignment{
			Tier:           patterns.TierCriminalPartner,
			Reasoning:      "Criminal case requires specialized criminal defense expertise",
			Urgency:        "immediate",
			PracticeArea:   "criminal_defense",
			Specialization: res.Specialization,
		}
	}

	switch {
	case score >= t.SeniorPartnerMin:
		return session.TierAssignment{
			Tier:         patterns.TierSeniorPartner,
			Reasoning:    fmt.Sprintf("High-value case (score %d-100) - requires senior partner expertise", t.SeniorPartnerMin),
			Urgency:      "high",
			PracticeArea: res.PracticeArea,
		}
	case score >= t.SeniorAttorneyMin:
		return session.TierAssignment{
			Tier:         patterns.TierSenior,
			Reasoning:    fmt.Sprintf("Moderate-value case (score %d-%d) - suitable for senior attorney", t.SeniorAttorneyMin, t.SeniorPartnerMin-1),
			Urgency:      "medium",
			PracticeArea: res.PracticeArea,
		}
	default:
		return session.TierAssignment{
			Tier:         patterns.TierJunior,
			Reasoning:    fmt.Sprintf("Initial consultation case (score 0-%d) - junior attorney assessment", t.SeniorAttorneyMin-1),
			Urgency:      "standard",
			PracticeArea: res.PracticeArea,
		}
	}
}

// Priority maps a tier assignment's urgency to the externally documented
// priority band.
func Priority(t session.TierAssignment) string {
	switch t.Urgency {
	case "immediate":
		return "immediate"
	case "high":
		return "high"
	case "medium":
		return "medium"
	default:
		return "standard"
	}
}
