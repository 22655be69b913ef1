package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const maxInterestLevel = 5

// DB is the subset of pgxpool.Pool the store needs. pgxmock satisfies it in
// tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store persists conversations, messages, and vehicle interest to PostgreSQL.
// All methods are nil-safe so the engine can run without persistence wired.
type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// MessageRecord is one persisted conversation turn.
type MessageRecord struct {
	ID        uuid.UUID
	SessionID string
	Role      string
	Content   string
	Intent    string
	CreatedAt time.Time
}

// EnsureConversation creates the conversation row for a session if it does
// not exist yet, and refreshes its activity timestamp if it does.
func (s *Store) EnsureConversation(ctx context.Context, sessionID, dealerID string) (uuid.UUID, error) {
	if s == nil || s.db == nil {
		return uuid.Nil, nil
	}
	if strings.TrimSpace(sessionID) == "" {
		return uuid.Nil, fmt.Errorf("conversation: empty session id")
	}

	var existingID uuid.UUID
	err := s.db.QueryRow(ctx,
		`SELECT id FROM conversations WHERE session_id = $1`,
		sessionID,
	).Scan(&existingID)

	if err == nil {
		now := time.Now()
		if _, execErr := s.db.Exec(ctx,
			`UPDATE conversations SET last_message_at = $1, updated_at = $1 WHERE id = $2`,
			now, existingID,
		); execErr != nil {
			return uuid.Nil, fmt.Errorf("conversation: touch: %w", execErr)
		}
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("conversation: lookup: %w", err)
	}

	newID := uuid.New()
	now := time.Now()
	_, err = s.db.Exec(ctx, `
		INSERT INTO conversations (id, session_id, dealer_id, status, started_at, last_message_at, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), 'active', $4, $4, $4, $4)
		ON CONFLICT (session_id) DO UPDATE SET last_message_at = EXCLUDED.last_message_at, updated_at = EXCLUDED.updated_at
	`, newID, sessionID, dealerID, now)
	if err != nil {
		return uuid.Nil, fmt.Errorf("conversation: create: %w", err)
	}
	return newID, nil
}

// AppendMessage persists one turn of the conversation.
func (s *Store) AppendMessage(ctx context.Context, sessionID, dealerID, role, content, intent string) error {
	if s == nil || s.db == nil {
		return nil
	}

	if _, err := s.EnsureConversation(ctx, sessionID, dealerID); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO conversation_messages (id, session_id, role, content, intent, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
	`, uuid.New(), sessionID, role, content, intent, time.Now())
	if err != nil {
		return fmt.Errorf("conversation: insert message: %w", err)
	}
	return nil
}

// RecordInterest bumps the interest level for a session/vehicle pair. The
// level starts at 1 and is capped at 5 so repeat questions about the same
// vehicle saturate instead of growing without bound.
func (s *Store) RecordInterest(ctx context.Context, sessionID, vehicleID string) error {
	if s == nil || s.db == nil {
		return nil
	}
	if sessionID == "" || vehicleID == "" {
		return nil
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO vehicle_interests (id, session_id, vehicle_id, interest_level, created_at, updated_at)
		VALUES ($1, $2, $3, 1, $4, $4)
		ON CONFLICT (session_id, vehicle_id) DO UPDATE SET
			interest_level = LEAST(vehicle_interests.interest_level + 1, $5),
			updated_at = EXCLUDED.updated_at
	`, uuid.New(), sessionID, vehicleID, time.Now(), maxInterestLevel)
	if err != nil {
		return fmt.Errorf("conversation: record interest: %w", err)
	}
	return nil
}

// MarkHandoff flags the conversation as waiting for a human salesperson.
func (s *Store) MarkHandoff(ctx context.Context, sessionID string) error {
	if s == nil || s.db == nil {
		return nil
	}

	_, err := s.db.Exec(ctx, `
		UPDATE conversations SET status = 'handoff', updated_at = $1 WHERE session_id = $2
	`, time.Now(), sessionID)
	if err != nil {
		return fmt.Errorf("conversation: mark handoff: %w", err)
	}
	return nil
}

// History returns the persisted turns for a session, oldest first.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]MessageRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	query := `
		SELECT id, session_id, role, content, COALESCE(intent, ''), created_at
		FROM conversation_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("conversation: history: %w", err)
	}
	defer rows.Close()

	var records []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Role, &rec.Content, &rec.Intent, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("conversation: scan message: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation: history rows: %w", err)
	}
	return records, nil
}

// DealerForSession returns the dealer recorded for an existing conversation,
// or "" when the session is new or was never tied to a dealer.
func (s *Store) DealerForSession(ctx context.Context, sessionID string) (string, error) {
	if s == nil || s.db == nil {
		return "", nil
	}

	var dealerID *string
	err := s.db.QueryRow(ctx,
		`SELECT dealer_id FROM conversations WHERE session_id = $1`,
		sessionID,
	).Scan(&dealerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("conversation: dealer lookup: %w", err)
	}
	if dealerID == nil {
		return "", nil
	}
	return *dealerID, nil
}

// DealerName returns the dealership's display name, or "" when unknown.
func (s *Store) DealerName(ctx context.Context, dealerID string) (string, error) {
	if s == nil || s.db == nil || dealerID == "" {
		return "", nil
	}

	var name string
	err := s.db.QueryRow(ctx,
		`SELECT business_name FROM dealers WHERE id = $1`,
		dealerID,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("conversation: dealer name: %w", err)
	}
	return name, nil
}
