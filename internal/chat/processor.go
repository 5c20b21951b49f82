package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/intakeflow/intakeflow/internal/assess"
	"github.com/intakeflow/intakeflow/internal/config"
	"github.com/intakeflow/intakeflow/internal/intent"
	"github.com/intakeflow/intakeflow/internal/llm"
	"github.com/intakeflow/intakeflow/internal/patterns"
	"github.com/intakeflow/intakeflow/internal/routing"
	"github.com/intakeflow/intakeflow/internal/scoring"
	"github.com/intakeflow/intakeflow/internal/session"
)

// ErrUnknownClient is returned when the request names a client id with no
// loaded configuration bundle.
var ErrUnknownClient = errors.New("unknown client")

// ErrEmptyMessage is returned for a missing or blank message. The request
// is rejected before any session mutation.
var ErrEmptyMessage = errors.New("message is required")

// defaultSessionID is used when the caller omits a session id.
const defaultSessionID = "default"

// Request is one inbound chat turn.
type Request struct {
	ClientID  string `json:"clientId"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// Processor runs the per-message intake pipeline: classify, score, assess,
// route, advance the stage, then generate a reply. All steps for one
// session are serialized under the store's per-session lock.
type Processor struct {
	sessions   *session.Store
	clients    *config.Clients
	lib        *patterns.Library
	classifier *intent.Classifier
	scorer     *scoring.Scorer
	matcher    *assess.Matcher
	router     *routing.Router
	provider   llm.Provider
	model      string
	thresholds config.Thresholds
	timeout    time.Duration
}

// NewProcessor wires the pipeline. provider may be nil; every reply then
// comes from the deterministic template path.
func NewProcessor(sessions *session.Store, clients *config.Clients, lib *patterns.Library, provider llm.Provider, cfg *config.Config) *Processor {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Processor{
		sessions:   sessions,
		clients:    clients,
		lib:        lib,
		classifier: intent.NewClassifier(provider, cfg.Model, timeout),
		scorer:     scoring.NewScorer(lib, sessions),
		matcher:    assess.NewMatcher(lib, sessions),
		router:     routing.NewRouter(sessions),
		provider:   provider,
		model:      cfg.Model,
		thresholds: cfg.Thresholds,
		timeout:    timeout,
	}
}

// Process handles one message end to end and returns the response payload.
// Validation failures and unknown clients return an error before any
// session state changes; everything after the user message is committed
// degrades to fallbacks instead of failing.
func (p *Processor) Process(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	client := p.clients.Get(req.ClientID)
	if client == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClient, req.ClientID)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	// Serialize the whole turn per session so two concurrent messages for
	// the same conversation cannot interleave reads and writes.
	unlock := p.sessions.Lock(sessionID)
	defer unlock()

	sess, err := p.sessions.GetOrCreate(ctx, sessionID, req.ClientID)
	if err != nil {
		return nil, err
	}

	// Append-then-process: the user's message is durable before anything
	// downstream can abort.
	if _, err := p.sessions.AppendMessage(ctx, sessionID, session.RoleUser, req.Message); err != nil {
		return nil, err
	}

	detected := p.classifier.Classify(ctx, req.Message, sess)
	scored := p.scorer.Score(ctx, req.Message, sess)
	assessment := p.matcher.Assess(ctx, req.Message, sess)

	// The matcher may have applied a bounded contradiction correction, so
	// route and stage off the session's current authoritative score.
	thresholds := client.EffectiveThresholds(p.thresholds)
	tier := p.router.Route(ctx, sess.LeadScore, detected, sess, thresholds)

	next := session.NextStage(sess.Stage, detected.Intent, sess.LeadScore)
	if next != sess.Stage {
		if err := p.sessions.UpdateStage(ctx, sessionID, next); err != nil {
			log.Printf("chat: updating stage for %s failed: %v", sessionID, err)
		} else {
			sess.Stage = next
		}
	}
	if err := p.sessions.SetIntentHistory(ctx, sessionID, sess.IntentHistory); err != nil {
		log.Printf("chat: persisting intent history for %s failed: %v", sessionID, err)
	}

	reply := p.generateReply(ctx, client, sess, req.Message, detected, assessment)

	if _, err := p.sessions.AppendMessage(ctx, sessionID, session.RoleAssistant, reply); err != nil {
		log.Printf("chat: appending reply for %s failed: %v", sessionID, err)
	}

	return assemble(sessionID, sess, detected, scored, assessment, tier, reply), nil
}

// generateReply asks the completion provider for reply prose under a
// timeout, falling back to the pattern library's stage-appropriate template
// when the provider is absent, slow, or failing.
func (p *Processor) generateReply(ctx context.Context, client *config.Client, sess *session.Session, message string, detected intent.Result, a assess.Assessment) string {
	if p.provider != nil {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
			Model: p.model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: replySystemPrompt(client, sess, detected, a)},
				{Role: llm.RoleUser, Content: message},
			},
			MaxTokens:   400,
			Temperature: 0.4,
		})
		if err == nil && strings.TrimSpace(resp.Content) != "" {
			return strings.TrimSpace(resp.Content)
		}
		if err != nil {
			log.Printf("chat: reply generation for %s failed, using template: %v", sess.ID, err)
		}
	}
	return p.templateReply(client, sess, a)
}

// templateReply is the deterministic reply path. Template choice follows
// the conversation stage: the first turn gets the pattern's opener, a
// consultation-ready session gets the booking text, everything else gets
// the follow-up.
func (p *Processor) templateReply(client *config.Client, sess *session.Session, a assess.Assessment) string {
	t := p.lib.Template(a.PatternID)
	var text string
	switch {
	case len(sess.Messages) == 0 && sess.Stage == session.StageInitial:
		text = t.Initial
		if client.Greeting != "" {
			text = client.Greeting + " " + text
		}
	case sess.Stage == session.StageConsultationReady || sess.Stage == session.StageQualifiedLead:
		text = t.Consultation
	default:
		text = t.FollowUp
	}
	if text == "" {
		text = p.lib.Template("default").FollowUp
	}
	return text
}

func replySystemPrompt(client *config.Client, sess *session.Session, detected intent.Result, a assess.Assessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the intake assistant for %s, a law firm.\n", client.BusinessName)
	fmt.Fprintf(&b, "Fee structure: %s.\n", client.FeeStructure)
	if len(client.CaseTypes) > 0 {
		fmt.Fprintf(&b, "Practice areas: %s.\n", strings.Join(client.CaseTypes, ", "))
	}
	fmt.Fprintf(&b, "Conversation stage: %s. Detected intent: %s. Case strength: %s.\n",
		sess.Stage, detected.Intent, a.Strength)
	b.WriteString("Respond warmly and briefly. Gather facts about the matter. " +
		"Never promise outcomes, never quote settlement amounts, never give legal advice. " +
		"If the caller seems ready, offer to schedule a consultation.")
	return b.String()
}
