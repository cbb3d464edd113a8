package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/voltaware/phantomwatt/internal/models"
)

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// ApplianceRepository reads appliance inventories from the store owned by
// the account service. This service never writes to it.
type ApplianceRepository struct {
	pool DatabasePool
}

// NewApplianceRepository creates a new appliance repository.
func NewApplianceRepository(pool DatabasePool) *ApplianceRepository {
	return &ApplianceRepository{
		pool: pool,
	}
}

// GetByUser retrieves the appliance inventory for a user. An empty slice
// means the user has no appliance records, which is not an error.
func (r *ApplianceRepository) GetByUser(ctx context.Context, userID string) ([]models.Appliance, error) {
	query := `
		SELECT id, user_id, name, rated_watt, quantity,
		       peak_usage_hours, off_peak_usage_hours, created_at
		FROM appliances
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query appliances: %w", err)
	}
	defer rows.Close()

	var appliances []models.Appliance
	for rows.Next() {
		var a models.Appliance
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Name,
			&a.RatedWatt,
			&a.Quantity,
			&a.PeakUsageHours,
			&a.OffPeakUsageHours,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan appliance row: %w", err)
		}
		appliances = append(appliances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read appliance rows: %w", err)
	}

	return appliances, nil
}

// CountByUser returns the number of appliance records for a user.
func (r *ApplianceRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM appliances WHERE user_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count appliances: %w", err)
	}
	return count, nil
}
