package intent

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/intakeflow/intakeflow/internal/llm"
	"github.com/intakeflow/intakeflow/internal/session"
)

// keywordRule is one priority-ordered classification rule. Rules are
// evaluated top to bottom over the whole transcript; the first hit wins.
type keywordRule struct {
	intent       string
	confidence   float64
	practiceArea string
	urgency      string
	keywords     []string
	reasoning    string
}

// rules is the fixed priority table. The criminal and urgent rules come
// first: a message carrying a high-severity keyword always classifies as
// high-severity regardless of other signals.
var rules = []keywordRule{
	{
		intent:       CriminalDefense,
		confidence:   0.95,
		practiceArea: "criminal_defense",
		urgency:      "high",
		keywords: []string{
			"arrested", "dui", "dwi", "criminal", "charges", "court date",
			"jail", "bail", "felony", "misdemeanor", "drug charge",
			"assault", "theft", "domestic violence", "warrant", "probation",
			"driving under influence",
		},
		reasoning: "Criminal defense case detected based on keywords",
	},
	{
		intent:       UrgentMatter,
		confidence:   0.90,
		practiceArea: "general",
		urgency:      "high",
		keywords:     []string{"urgent", "emergency", "asap", "right away", "immediately"},
		reasoning:    "Urgency keywords detected",
	},
	{
		intent:       InjuryDetails,
		confidence:   0.90,
		practiceArea: "personal_injury",
		urgency:      "medium",
		keywords:     []string{"accident", "injury", "injured", "hurt", "pain", "crash", "collision", "hit by"},
		reasoning:    "Personal injury case detected based on keywords",
	},
	{
		intent:       CaseInquiry,
		confidence:   0.80,
		practiceArea: "family_law",
		urgency:      "medium",
		keywords:     []string{"divorce", "custody", "child support", "alimony"},
		reasoning:    "Family law keywords detected",
	},
	{
		intent:       FeeQuestions,
		confidence:   0.85,
		practiceArea: "general",
		urgency:      "low",
		keywords:     []string{"fee", "cost", "price", "how much", "contingency", "retainer", "afford"},
		reasoning:    "Fee-related keywords detected",
	},
	{
		intent:       AppointmentScheduling,
		confidence:   0.80,
		practiceArea: "general",
		urgency:      "medium",
		keywords:     []string{"schedule", "book", "reschedule", "availability"},
		reasoning:    "Scheduling keywords detected",
	},
	{
		intent:       ConsultationRequest,
		confidence:   0.80,
		practiceArea: "general",
		urgency:      "medium",
		keywords:     []string{"consult", "consultation", "appointment", "meet with", "speak with", "talk to a lawyer", "talk to an attorney"},
		reasoning:    "Consultation request keywords detected",
	},
	{
		intent:       DocumentHelp,
		confidence:   0.75,
		practiceArea: "general",
		urgency:      "low",
		keywords:     []string{"documents", "paperwork", "police report", "medical records"},
		reasoning:    "Document-related keywords detected",
	},
}

// Classifier maps a message plus conversation history to an intent label.
// It never returns an error: any failure in the external fallback path
// collapses to the default general-inquiry intent.
type Classifier struct {
	provider llm.Provider
	model    string
	timeout  time.Duration
}

// NewClassifier creates a classifier. provider may be nil, in which case
// unmatched messages go straight to the default intent.
func NewClassifier(provider llm.Provider, model string, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Classifier{provider: provider, model: model, timeout: timeout}
}

// Classify evaluates the priority rule table over the whole conversation,
// falling back to the external classifier for messages no rule covers. The
// result is appended to the session's bounded intent history.
func (c *Classifier) Classify(ctx context.Context, message string, sess *session.Session) Result {
	lower := strings.ToLower(sess.Transcript(message))

	result := c.classifyRules(lower)
	if result == nil {
		result = c.classifyExternal(ctx, message, sess)
	}

	sess.RecordIntent(session.IntentRecord{
		Intent:     result.Intent,
		Confidence: result.Confidence,
		Timestamp:  time.Now().UTC(),
	})
	return *result
}

func (c *Classifier) classifyRules(lowerContext string) *Result {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if !strings.Contains(lowerContext, kw) {
				continue
			}
			r := Result{
				Intent:       rule.intent,
				Confidence:   rule.confidence,
				Reasoning:    rule.reasoning,
				PracticeArea: rule.practiceArea,
				Urgency:      rule.urgency,
			}
			if rule.intent == CriminalDefense {
				r.Specialization = criminalSpecialization(lowerContext)
			}
			return &r
		}
	}
	return nil
}

func criminalSpecialization(context string) string {
	switch {
	case strings.Contains(context, "dui") || strings.Contains(context, "dwi") || strings.Contains(context, "driving under influence"):
		return "dui_defense"
	case strings.Contains(context, "drug") || strings.Contains(context, "possession"):
		return "drug_crimes"
	case strings.Contains(context, "assault") || strings.Contains(context, "domestic") || strings.Contains(context, "battery"):
		return "violent_crimes"
	case strings.Contains(context, "theft") || strings.Contains(context, "burglary") || strings.Contains(context, "robbery"):
		return "property_crimes"
	default:
		return "general_criminal"
	}
}

const classifySystemPrompt = `You are a legal intake intent classifier. Analyze the client message and identify the primary intent.

AVAILABLE INTENTS:
CASE_INQUIRY, INJURY_DETAILS, FEE_QUESTIONS, CONSULTATION_REQUEST, URGENT_MATTER, GENERAL_INFO, APPOINTMENT_SCHEDULING, CASE_STATUS, DOCUMENT_HELP, REFERRAL_REQUEST, CRIMINAL_DEFENSE

RESPONSE FORMAT:
Primary Intent: [INTENT_NAME]
Confidence: [0.0-1.0]
Reasoning: [brief explanation]
Practice Area: [criminal_defense/personal_injury/family_law/business_law/general]
Urgency: [high/medium/low]`

// classifyExternal asks the completion provider and parses its structured
// output defensively. Any malformed field, timeout or error falls back to
// the default intent; classification never surfaces a failure.
func (c *Classifier) classifyExternal(ctx context.Context, message string, sess *session.Session) *Result {
	if c.provider == nil {
		return defaultIntent()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := "Client Message: \"" + message + "\"\n"
	if len(sess.IntentHistory) > 0 {
		prompt += "Previous intents:"
		for _, rec := range sess.IntentHistory {
			prompt += " " + rec.Intent
		}
		prompt += "\n"
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: classifySystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   150,
		Temperature: 0.2,
	})
	if err != nil {
		log.Printf("intent: external classification failed: %v", err)
		return defaultIntent()
	}
	return parseExternal(resp.Content)
}

// parseExternal extracts the structured fields line by line. Unknown intent
// labels, out-of-range confidences and missing fields keep their defaults.
func parseExternal(content string) *Result {
	r := defaultIntent()
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Primary Intent:"):
			label := strings.TrimSpace(strings.TrimPrefix(line, "Primary Intent:"))
			if known[label] {
				r.Intent = label
				r.Fallback = false
			}
		case strings.HasPrefix(line, "Confidence:"):
			if v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "Confidence:")), 64); err == nil && v >= 0 && v <= 1 {
				r.Confidence = v
			}
		case strings.HasPrefix(line, "Reasoning:"):
			if v := strings.TrimSpace(strings.TrimPrefix(line, "Reasoning:")); v != "" {
				r.Reasoning = v
			}
		case strings.HasPrefix(line, "Practice Area:"):
			if v := strings.TrimSpace(strings.TrimPrefix(line, "Practice Area:")); v != "" {
				r.PracticeArea = v
			}
		case strings.HasPrefix(line, "Urgency:"):
			v := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "Urgency:")))
			if v == "low" || v == "medium" || v == "high" {
				r.Urgency = v
			}
		}
	}
	return r
}

func defaultIntent() *Result {
	return &Result{
		Intent:       GeneralInfo,
		Confidence:   0.6,
		Reasoning:    "Fallback analysis",
		PracticeArea: "general",
		Urgency:      "low",
		Fallback:     true,
	}
}
