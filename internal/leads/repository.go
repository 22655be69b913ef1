package leads

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository defines the lead storage contract.
type Repository interface {
	Upsert(ctx context.Context, c Capture) (*Lead, error)
	ListByDealer(ctx context.Context, dealerID string, limit int) ([]Lead, error)
	GetByID(ctx context.Context, dealerID, id string) (*Lead, error)
}

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
