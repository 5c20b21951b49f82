package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/intakeflow/intakeflow/internal/config"
	"github.com/intakeflow/intakeflow/internal/db"
	"github.com/intakeflow/intakeflow/internal/patterns"
	"github.com/intakeflow/intakeflow/internal/session"
)

const testClientYAML = `
business_name: Acme Law
greeting: Welcome to Acme Law.
fee_structure: Contingency fee.
case_types: [personal_injury, criminal_defense]
`

func setupProcessor(t *testing.T) (*Processor, *session.Store) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	sessions := session.NewStore(database)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "acme-law.yml"), []byte(testClientYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	clients, err := config.LoadClients(dir)
	if err != nil {
		t.Fatalf("LoadClients: %v", err)
	}

	cfg := config.DefaultConfig()
	return NewProcessor(sessions, clients, patterns.Default(), nil, cfg), sessions
}

func TestProcessRejectsEmptyMessage(t *testing.T) {
	p, sessions := setupProcessor(t)

	_, err := p.Process(context.Background(), Request{ClientID: "acme-law", Message: "   "})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}

	// Rejection happens before any session mutation.
	sess, err := sessions.Get(context.Background(), "default")
	if err != nil {
		t.Fatal(err)
	}
	if sess != nil {
		t.Error("session created for rejected request")
	}
}

func TestProcessRejectsUnknownClient(t *testing.T) {
	p, _ := setupProcessor(t)

	_, err := p.Process(context.Background(), Request{ClientID: "nobody", Message: "hello"})
	if !errors.Is(err, ErrUnknownClient) {
		t.Fatalf("err = %v, want ErrUnknownClient", err)
	}
}

func TestProcessDefaultsSessionID(t *testing.T) {
	p, sessions := setupProcessor(t)

	resp, err := p.Process(context.Background(), Request{ClientID: "acme-law", Message: "hello there"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.SessionID != "default" {
		t.Errorf("SessionID = %q, want default", resp.SessionID)
	}

	sess, err := sessions.Get(context.Background(), "default")
	if err != nil {
		t.Fatal(err)
	}
	if sess == nil {
		t.Fatal("default session not created")
	}
}

func TestProcessStrongInjuryLead(t *testing.T) {
	p, _ := setupProcessor(t)

	resp, err := p.Process(context.Background(), Request{
		ClientID:  "acme-law",
		SessionID: "conv-1",
		Message:   "I was hurt when a semi truck hit me, had surgery at the hospital and missed work",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	ai := resp.AIData
	if ai.LeadScore != 100 {
		t.Errorf("LeadScore = %d, want 100", ai.LeadScore)
	}
	if ai.DetectedIntent != "INJURY_DETAILS" {
		t.Errorf("DetectedIntent = %q, want INJURY_DETAILS", ai.DetectedIntent)
	}
	if ai.AttorneyMatch != string(patterns.TierSeniorPartner) {
		t.Errorf("AttorneyMatch = %q, want %q", ai.AttorneyMatch, patterns.TierSeniorPartner)
	}
	if ai.Priority != "high" {
		t.Errorf("Priority = %q, want high", ai.Priority)
	}
	if ai.Urgency != "High" {
		t.Errorf("Urgency = %q, want High", ai.Urgency)
	}
	if resp.Stage != string(session.StageQualifiedLead) {
		t.Errorf("Stage = %q, want %q", resp.Stage, session.StageQualifiedLead)
	}
	if resp.Response == "" {
		t.Error("empty reply text")
	}
}

func TestProcessCriminalRoutesImmediately(t *testing.T) {
	p, _ := setupProcessor(t)

	resp, err := p.Process(context.Background(), Request{
		ClientID:  "acme-law",
		SessionID: "conv-crim",
		Message:   "I was arrested for DUI last night",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	ai := resp.AIData
	if ai.DetectedIntent != "CRIMINAL_DEFENSE" {
		t.Errorf("DetectedIntent = %q, want CRIMINAL_DEFENSE", ai.DetectedIntent)
	}
	if ai.AttorneyMatch != string(patterns.TierCriminalPartner) {
		t.Errorf("AttorneyMatch = %q, want %q", ai.AttorneyMatch, patterns.TierCriminalPartner)
	}
	if ai.Priority != "immediate" {
		t.Errorf("Priority = %q, want immediate", ai.Priority)
	}
	if resp.Stage != string(session.StageQualification) {
		t.Errorf("Stage = %q, want %q", resp.Stage, session.StageQualification)
	}
}

func TestProcessScoreMonotonicAcrossTurns(t *testing.T) {
	p, _ := setupProcessor(t)
	ctx := context.Background()

	first, err := p.Process(ctx, Request{
		ClientID:  "acme-law",
		SessionID: "conv-1",
		Message:   "a semi truck hit me and I'm hurt",
	})
	if err != nil {
		t.Fatal(err)
	}

	// A contentless follow-up must not lower the score.
	second, err := p.Process(ctx, Request{
		ClientID:  "acme-law",
		SessionID: "conv-1",
		Message:   "ok thank you",
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.AIData.LeadScore < first.AIData.LeadScore {
		t.Errorf("score decreased: %d -> %d", first.AIData.LeadScore, second.AIData.LeadScore)
	}
}

func TestProcessContradictionCorrection(t *testing.T) {
	p, _ := setupProcessor(t)
	ctx := context.Background()

	first, err := p.Process(ctx, Request{
		ClientID:  "acme-law",
		SessionID: "conv-1",
		Message:   "I was hurt when a semi truck hit me, I broke my arm and had surgery at the hospital and missed work",
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.AIData.LeadScore != 100 {
		t.Fatalf("setup score = %d, want 100", first.AIData.LeadScore)
	}

	second, err := p.Process(ctx, Request{
		ClientID:  "acme-law",
		SessionID: "conv-1",
		Message:   "actually I wasn't hurt at all, no injuries",
	})
	if err != nil {
		t.Fatal(err)
	}
	got := second.AIData.LeadScore
	if got >= 100 {
		t.Errorf("score = %d, expected a downward correction", got)
	}
	if got < 80 {
		t.Errorf("score = %d, below the 80%% correction floor", got)
	}
}

func TestProcessPersistsTranscript(t *testing.T) {
	p, sessions := setupProcessor(t)
	ctx := context.Background()

	if _, err := p.Process(ctx, Request{ClientID: "acme-law", SessionID: "conv-1", Message: "hello"}); err != nil {
		t.Fatal(err)
	}

	messages, err := sessions.History(ctx, "conv-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want user + assistant", len(messages))
	}
	if messages[0].Role != session.RoleUser || messages[1].Role != session.RoleAssistant {
		t.Errorf("roles = %q, %q", messages[0].Role, messages[1].Role)
	}
}

func TestProcessConsultationReadyTerminal(t *testing.T) {
	p, _ := setupProcessor(t)
	ctx := context.Background()

	if _, err := p.Process(ctx, Request{ClientID: "acme-law", SessionID: "conv-1", Message: "hello, I have a question"}); err != nil {
		t.Fatal(err)
	}

	resp, err := p.Process(ctx, Request{ClientID: "acme-law", SessionID: "conv-1", Message: "can I book a consultation?"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Stage != string(session.StageConsultationReady) {
		t.Fatalf("Stage = %q, want %q", resp.Stage, session.StageConsultationReady)
	}

	// Terminal: a later high-severity message does not move the stage.
	resp, err = p.Process(ctx, Request{ClientID: "acme-law", SessionID: "conv-1", Message: "also I was arrested"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Stage != string(session.StageConsultationReady) {
		t.Errorf("Stage = %q, want terminal %q", resp.Stage, session.StageConsultationReady)
	}
}
