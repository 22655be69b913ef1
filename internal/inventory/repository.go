package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

// Repository is the read contract the matcher depends on.
type Repository interface {
	Available(ctx context.Context, dealerID string, c Criteria, limit int) ([]Vehicle, error)
	CountAvailable(ctx context.Context, dealerID string) (int, error)
	GetByID(ctx context.Context, id string) (*Vehicle, error)
}

// ErrVehicleNotFound is returned when a vehicle ID does not exist.
var ErrVehicleNotFound = fmt.Errorf("inventory: vehicle not found")

// DB is the subset of pgxpool.Pool used by the repository.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository reads vehicle stock from the relational database.
type PostgresRepository struct {
	db     DB
	logger *logging.Logger
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(db DB, logger *logging.Logger) *PostgresRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &PostgresRepository{db: db, logger: logger}
}

const vehicleColumns = `id, dealer_id, make, model, year, COALESCE(trim, ''), COALESCE(price, 0),
	COALESCE(mileage, 0), status, COALESCE(exterior_color, ''), COALESCE(interior_color, ''),
	COALESCE(features, '{}'), created_at`

// Available returns available vehicles for the dealer matching the criteria,
// most recent first, capped at limit.
func (r *PostgresRepository) Available(ctx context.Context, dealerID string, c Criteria, limit int) ([]Vehicle, error) {
	if limit <= 0 {
		limit = 20
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM vehicles WHERE dealer_id = $1 AND status = $2", vehicleColumns)
	args := []any{dealerID, StatusAvailable}

	if c.Make != "" {
		args = append(args, c.Make)
		fmt.Fprintf(&sb, " AND LOWER(make) = $%d", len(args))
	}
	if c.Model != "" {
		args = append(args, c.Model)
		fmt.Fprintf(&sb, " AND LOWER(model) = $%d", len(args))
	}
	if c.MinPrice > 0 {
		args = append(args, c.MinPrice)
		fmt.Fprintf(&sb, " AND price >= $%d", len(args))
	}
	if c.MaxPrice > 0 {
		args = append(args, c.MaxPrice)
		fmt.Fprintf(&sb, " AND price <= $%d", len(args))
	}

	args = append(args, limit)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("inventory: query failed: %w", err)
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory: rows failed: %w", err)
	}
	return vehicles, nil
}

// CountAvailable returns the unfiltered available count for the dealer.
func (r *PostgresRepository) CountAvailable(ctx context.Context, dealerID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM vehicles WHERE dealer_id = $1 AND status = $2`,
		dealerID, StatusAvailable,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("inventory: count failed: %w", err)
	}
	return count, nil
}

// GetByID fetches a single vehicle regardless of status.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM vehicles WHERE id = $1`, vehicleColumns), id)

	v, err := scanVehicle(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

func scanVehicle(row pgx.Row) (Vehicle, error) {
	var v Vehicle
	err := row.Scan(
		&v.ID,
		&v.DealerID,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.Trim,
		&v.Price,
		&v.Mileage,
		&v.Status,
		&v.ExteriorColor,
		&v.InteriorColor,
		&v.Features,
		&v.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Vehicle{}, err
		}
		return Vehicle{}, fmt.Errorf("inventory: scan failed: %w", err)
	}
	return v, nil
}
