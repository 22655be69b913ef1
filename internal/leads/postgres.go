package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db DB
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("leads: database required")
	}
	return &PostgresRepository{db: db}
}

const leadColumns = `id, dealer_id, session_id, COALESCE(name, ''), COALESCE(email, ''),
	COALESCE(phone, ''), intent, score, handoff, COALESCE(last_message, ''), created_at, updated_at`

// Upsert writes the latest scored state for a session's lead. The score keeps
// its high-water mark and the handoff flag is sticky once set.
func (r *PostgresRepository) Upsert(ctx context.Context, c Capture) (*Lead, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO leads (id, dealer_id, session_id, name, email, phone, intent, score, handoff, last_message, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''), NOW(), NOW())
		ON CONFLICT (session_id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), leads.name),
			email = COALESCE(NULLIF(EXCLUDED.email, ''), leads.email),
			phone = COALESCE(NULLIF(EXCLUDED.phone, ''), leads.phone),
			intent = EXCLUDED.intent,
			score = GREATEST(leads.score, EXCLUDED.score),
			handoff = leads.handoff OR EXCLUDED.handoff,
			last_message = EXCLUDED.last_message,
			updated_at = NOW()
		RETURNING `+leadColumns,
		uuid.New(), c.DealerID, c.SessionID, c.Name, c.Email, c.Phone,
		c.Intent, c.Score, c.Handoff, c.LastMessage,
	)

	lead, err := scanLead(row)
	if err != nil {
		return nil, fmt.Errorf("leads: upsert failed: %w", err)
	}
	return lead, nil
}

// ListByDealer returns the dealer's leads, most recently active first.
func (r *PostgresRepository) ListByDealer(ctx context.Context, dealerID string, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE dealer_id = $1
		ORDER BY updated_at DESC
		LIMIT $2
	`, dealerID, limit)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list rows: %w", err)
	}
	return out, nil
}

// GetByID fetches a lead scoped to the dealer.
func (r *PostgresRepository) GetByID(ctx context.Context, dealerID, id string) (*Lead, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1 AND dealer_id = $2
	`, id, dealerID)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID, &lead.DealerID, &lead.SessionID, &lead.Name, &lead.Email,
		&lead.Phone, &lead.Intent, &lead.Score, &lead.Handoff, &lead.LastMessage,
		&lead.CreatedAt, &lead.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
