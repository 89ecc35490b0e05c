package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/recipe-activity/internal/repository"
)

// OverrideRepository implements session.OverrideRepository for SQLite
type OverrideRepository struct {
	db *DB
}

// NewOverrideRepository creates a new OverrideRepository
func NewOverrideRepository(db *DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// MarkCompleted records (or refreshes) a manual completion
func (r *OverrideRepository) MarkCompleted(ctx context.Context, tenantID, sessionID string, at time.Time) error {
	query := `
		INSERT INTO session_overrides (tenant_id, session_id, completed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(tenant_id, session_id) DO UPDATE SET completed_at = excluded.completed_at
	`
	if _, err := r.db.ExecContext(ctx, query, tenantID, sessionID, at.UTC()); err != nil {
		return fmt.Errorf("failed to mark session completed: %w", err)
	}
	return nil
}

// Clear removes a manual completion
func (r *OverrideRepository) Clear(ctx context.Context, tenantID, sessionID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM session_overrides WHERE tenant_id = ? AND session_id = ?`, tenantID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear session override: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns the ids of all manually completed sessions for a tenant
func (r *OverrideRepository) List(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id FROM session_overrides WHERE tenant_id = ? ORDER BY session_id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session overrides: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session override: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating override rows: %w", err)
	}
	return ids, nil
}
