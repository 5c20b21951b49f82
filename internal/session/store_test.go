package session

import (
	"context"
	"testing"
	"time"

	"github.com/intakeflow/intakeflow/internal/db"
	"github.com/intakeflow/intakeflow/internal/patterns"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestGetOrCreate(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "conv-1", "acme-law")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if sess.LeadScore != 0 {
		t.Errorf("LeadScore = %d, want 0", sess.LeadScore)
	}
	if sess.Stage != StageInitial {
		t.Errorf("Stage = %q, want %q", sess.Stage, StageInitial)
	}

	again, err := store.GetOrCreate(ctx, "conv-1", "acme-law")
	if err != nil {
		t.Fatalf("GetOrCreate (existing): %v", err)
	}
	if again.ID != sess.ID || again.ClientID != "acme-law" {
		t.Errorf("existing session mismatch: %+v", again)
	}
}

func TestGetUnknownReturnsNil(t *testing.T) {
	store := setupStore(t)

	sess, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil for unknown session, got %+v", sess)
	}
}

func TestAppendMessageAndHistory(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "conv-1", "acme-law"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AppendMessage(ctx, "conv-1", RoleUser, "I was rear ended"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if _, err := store.AppendMessage(ctx, "conv-1", RoleAssistant, "I'm sorry to hear that"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	messages, err := store.History(ctx, "conv-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	if messages[0].Role != RoleUser || messages[1].Role != RoleAssistant {
		t.Errorf("message order wrong: %q then %q", messages[0].Role, messages[1].Role)
	}
}

func TestRaiseScoreNeverDecreases(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "conv-1", "acme-law"); err != nil {
		t.Fatal(err)
	}

	score, err := store.RaiseScore(ctx, "conv-1", 55)
	if err != nil {
		t.Fatalf("RaiseScore: %v", err)
	}
	if score != 55 {
		t.Errorf("score = %d, want 55", score)
	}

	// A lower candidate must not win.
	score, err = store.RaiseScore(ctx, "conv-1", 30)
	if err != nil {
		t.Fatalf("RaiseScore: %v", err)
	}
	if score != 55 {
		t.Errorf("score after lower candidate = %d, want 55", score)
	}

	score, err = store.RaiseScore(ctx, "conv-1", 90)
	if err != nil {
		t.Fatalf("RaiseScore: %v", err)
	}
	if score != 90 {
		t.Errorf("score = %d, want 90", score)
	}
}

func TestRaiseScoreClamps(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "conv-1", "acme-law"); err != nil {
		t.Fatal(err)
	}

	score, err := store.RaiseScore(ctx, "conv-1", 250)
	if err != nil {
		t.Fatalf("RaiseScore: %v", err)
	}
	if score != 100 {
		t.Errorf("score = %d, want 100", score)
	}
}

func TestCorrectScoreFloor(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "conv-1", "acme-law"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RaiseScore(ctx, "conv-1", 100); err != nil {
		t.Fatal(err)
	}

	// Candidate far below the floor: correction stops at 80% of current.
	score, err := store.CorrectScore(ctx, "conv-1", 20)
	if err != nil {
		t.Fatalf("CorrectScore: %v", err)
	}
	if score != 80 {
		t.Errorf("corrected score = %d, want 80", score)
	}

	// Candidate above the floor wins.
	if _, err := store.RaiseScore(ctx, "conv-1", 100); err != nil {
		t.Fatal(err)
	}
	score, err = store.CorrectScore(ctx, "conv-1", 95)
	if err != nil {
		t.Fatalf("CorrectScore: %v", err)
	}
	if score != 95 {
		t.Errorf("corrected score = %d, want 95", score)
	}
}

func TestUpdateRoutingRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "conv-1", "acme-law"); err != nil {
		t.Fatal(err)
	}

	assignment := TierAssignment{
		Tier:         patterns.TierSeniorPartner,
		Reasoning:    "High-value case (score 71-100) - requires senior partner expertise",
		Urgency:      "high",
		PracticeArea: "personal_injury",
	}
	if err := store.UpdateRouting(ctx, "conv-1", assignment); err != nil {
		t.Fatalf("UpdateRouting: %v", err)
	}

	sess, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Routing.Tier != patterns.TierSeniorPartner {
		t.Errorf("Tier = %q, want %q", sess.Routing.Tier, patterns.TierSeniorPartner)
	}
	if sess.Routing.Urgency != "high" {
		t.Errorf("Urgency = %q, want %q", sess.Routing.Urgency, "high")
	}
}

func TestIntentHistoryRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "conv-1", "acme-law")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 7; i++ {
		sess.RecordIntent(IntentRecord{Intent: "GENERAL_INFO", Confidence: 0.6, Timestamp: time.Now()})
	}
	if len(sess.IntentHistory) != maxIntentHistory {
		t.Fatalf("history length = %d, want %d", len(sess.IntentHistory), maxIntentHistory)
	}

	if err := store.SetIntentHistory(ctx, "conv-1", sess.IntentHistory); err != nil {
		t.Fatalf("SetIntentHistory: %v", err)
	}

	loaded, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(loaded.IntentHistory) != maxIntentHistory {
		t.Errorf("loaded history length = %d, want %d", len(loaded.IntentHistory), maxIntentHistory)
	}
}

func TestDeleteRemovesMessages(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "conv-1", "acme-law"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AppendMessage(ctx, "conv-1", RoleUser, "hello"); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, "conv-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	sess, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess != nil {
		t.Errorf("expected session gone, got %+v", sess)
	}

	messages, err := store.History(ctx, "conv-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected cascade delete of messages, got %d", len(messages))
	}
}

func TestListLeads(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, c := range []struct {
		id    string
		score int
	}{
		{"conv-low", 20},
		{"conv-mid", 55},
		{"conv-high", 90},
	} {
		if _, err := store.GetOrCreate(ctx, c.id, "acme-law"); err != nil {
			t.Fatal(err)
		}
		if _, err := store.RaiseScore(ctx, c.id, c.score); err != nil {
			t.Fatal(err)
		}
	}

	leads, err := store.ListLeads(ctx, 40)
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("len(leads) = %d, want 2", len(leads))
	}
	if leads[0].SessionID != "conv-high" || leads[1].SessionID != "conv-mid" {
		t.Errorf("lead order wrong: %s, %s", leads[0].SessionID, leads[1].SessionID)
	}
}

func TestNextStage(t *testing.T) {
	tests := []struct {
		name    string
		current Stage
		intent  string
		score   int
		want    Stage
	}{
		{"first message", StageInitial, "GENERAL_INFO", 0, StageGathering},
		{"criminal forces qualification", StageInitial, "CRIMINAL_DEFENSE", 0, StageQualification},
		{"high score qualifies", StageGathering, "INJURY_DETAILS", 75, StageQualifiedLead},
		{"mid score moves to qualification", StageGathering, "INJURY_DETAILS", 45, StageQualification},
		{"consultation past initial", StageGathering, "CONSULTATION_REQUEST", 10, StageConsultationReady},
		{"consultation on first message gathers", StageInitial, "CONSULTATION_REQUEST", 0, StageGathering},
		{"appointment past initial", StageQualification, "APPOINTMENT_SCHEDULING", 10, StageConsultationReady},
		{"low score holds stage", StageQualification, "GENERAL_INFO", 10, StageQualification},
		{"consultation_ready is terminal", StageConsultationReady, "CRIMINAL_DEFENSE", 90, StageConsultationReady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextStage(tt.current, tt.intent, tt.score); got != tt.want {
				t.Errorf("NextStage(%q, %q, %d) = %q, want %q", tt.current, tt.intent, tt.score, got, tt.want)
			}
		})
	}
}

func TestTranscriptUserMessagesOnly(t *testing.T) {
	sess := &Session{
		Messages: []Message{
			{Role: RoleUser, Content: "I was in a crash"},
			{Role: RoleAssistant, Content: "I'm sorry to hear that"},
			{Role: RoleUser, Content: "my back hurts"},
		},
	}
	got := sess.Transcript("I missed work")
	want := "I was in a crash my back hurts I missed work"
	if got != want {
		t.Errorf("Transcript = %q, want %q", got, want)
	}
}
