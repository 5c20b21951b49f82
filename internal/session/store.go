package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/intakeflow/intakeflow/internal/db"
	"github.com/intakeflow/intakeflow/internal/patterns"
)

// Store manages persistence of conversation sessions.
//
// Two concurrent requests for the same session id would race on the
// read-score-write step, so callers must hold the session lock (Lock) for
// the duration of one message's processing. The score UPDATE statements are
// additionally written as MAX() expressions so that even an unlocked write
// cannot violate the monotonicity floor.
type Store struct {
	db *db.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a new session store.
func NewStore(database *db.DB) *Store {
	return &Store{
		db:    database,
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock serializes processing for one session id. The returned function
// releases the lock.
func (s *Store) Lock(sessionID string) func() {
	s.mu.Lock()
	m, ok := s.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[sessionID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// GetOrCreate loads a session with its transcript, creating it on first
// contact for an unseen id.
func (s *Store) GetOrCreate(ctx context.Context, id, clientID string) (*Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, client_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, clientID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{
		ID:        id,
		ClientID:  clientID,
		Stage:     StageInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Get retrieves a session by id, with messages, or nil when unknown.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	var intentHistory string
	var tier string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, client_id, lead_score, stage, tier, tier_reasoning, tier_urgency,
		        practice_area, specialization, intent_history, created_at, updated_at
		 FROM chat_sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.ClientID, &sess.LeadScore, (*string)(&sess.Stage),
		&tier, &sess.Routing.Reasoning, &sess.Routing.Urgency,
		&sess.Routing.PracticeArea, &sess.Routing.Specialization,
		&intentHistory, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	sess.Routing.Tier = patterns.Tier(tier)

	if err := json.Unmarshal([]byte(intentHistory), &sess.IntentHistory); err != nil {
		return nil, fmt.Errorf("decoding intent history: %w", err)
	}

	messages, err := s.History(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Messages = messages
	return &sess, nil
}

// History returns a session's messages, oldest first.
func (s *Store) History(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM chat_messages WHERE session_id = ? ORDER BY created_at ASC, id ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionID, (*string)(&m.Role), &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// AppendMessage adds a transcript entry. Messages are append-only; this is
// committed before any processing so an aborted response generation never
// loses what the user actually sent.
func (s *Store) AppendMessage(ctx context.Context, sessionID string, role Role, content string) (*Message, error) {
	m := Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.SessionID, m.Role, m.Content, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("appending message: %w", err)
	}
	return &m, nil
}

// RaiseScore writes the authoritative score for the monotonic path. The
// stored value can only go up: the statement keeps the maximum of the stored
// and candidate values, both clamped to [0,100].
func (s *Store) RaiseScore(ctx context.Context, sessionID string, candidate int) (int, error) {
	candidate = clampScore(candidate)
	_, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET lead_score = MAX(lead_score, ?), updated_at = ? WHERE id = ?`,
		candidate, time.Now().UTC(), sessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("raising score: %w", err)
	}
	return s.readScore(ctx, sessionID)
}

// CorrectScore applies the single bounded exception to monotonicity: when a
// contradiction has been detected, the new score is
// max(candidate, stored * 0.8). The 80% floor is enforced in the statement
// itself so no caller can push the score below it.
func (s *Store) CorrectScore(ctx context.Context, sessionID string, candidate int) (int, error) {
	candidate = clampScore(candidate)
	_, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions
		 SET lead_score = MAX(?, CAST(lead_score * 0.8 AS INTEGER)), updated_at = ?
		 WHERE id = ?`,
		candidate, time.Now().UTC(), sessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("correcting score: %w", err)
	}
	score, err := s.readScore(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	log.Printf("session: contradiction correction applied to %s, score now %d", sessionID, score)
	return score, nil
}

func (s *Store) readScore(ctx context.Context, sessionID string) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		`SELECT lead_score FROM chat_sessions WHERE id = ?`, sessionID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("reading score: %w", err)
	}
	return score, nil
}

// UpdateStage persists a stage transition.
func (s *Store) UpdateStage(ctx context.Context, sessionID string, stage Stage) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET stage = ?, updated_at = ? WHERE id = ?`,
		stage, time.Now().UTC(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("updating stage: %w", err)
	}
	return nil
}

// UpdateRouting persists a tier assignment. The upgrade-only comparison is
// the router's responsibility; the store records whatever decision won.
func (s *Store) UpdateRouting(ctx context.Context, sessionID string, t TierAssignment) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions
		 SET tier = ?, tier_reasoning = ?, tier_urgency = ?, practice_area = ?, specialization = ?, updated_at = ?
		 WHERE id = ?`,
		string(t.Tier), t.Reasoning, t.Urgency, t.PracticeArea, t.Specialization, time.Now().UTC(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("updating routing: %w", err)
	}
	return nil
}

// SetIntentHistory persists the bounded intent history.
func (s *Store) SetIntentHistory(ctx context.Context, sessionID string, history []IntentRecord) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding intent history: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET intent_history = ?, updated_at = ? WHERE id = ?`,
		string(data), time.Now().UTC(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("updating intent history: %w", err)
	}
	return nil
}

// Delete removes a session and, via cascade, its messages.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// LeadSummary is one row of the export listing.
type LeadSummary struct {
	SessionID    string
	ClientID     string
	LeadScore    int
	Stage        Stage
	Tier         patterns.Tier
	Urgency      string
	PracticeArea string
	Messages     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListLeads returns sessions at or above minScore, best first.
func (s *Store) ListLeads(ctx context.Context, minScore int) ([]LeadSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cs.id, cs.client_id, cs.lead_score, cs.stage, cs.tier, cs.tier_urgency,
		        cs.practice_area, COUNT(cm.id), cs.created_at, cs.updated_at
		 FROM chat_sessions cs
		 LEFT JOIN chat_messages cm ON cm.session_id = cs.id
		 WHERE cs.lead_score >= ?
		 GROUP BY cs.id
		 ORDER BY cs.lead_score DESC, cs.updated_at DESC`, minScore,
	)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []LeadSummary
	for rows.Next() {
		var l LeadSummary
		var tier string
		if err := rows.Scan(&l.SessionID, &l.ClientID, &l.LeadScore, (*string)(&l.Stage), &tier,
			&l.Urgency, &l.PracticeArea, &l.Messages, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		l.Tier = patterns.Tier(tier)
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
