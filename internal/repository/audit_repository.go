package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"esls/api/internal/models"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Record(ctx context.Context, entry models.AuditEntry) error {
	const query = `
		INSERT INTO audit_log (actor, action, method, path, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		entry.Actor,
		entry.Action,
		entry.Method,
		entry.Path,
		entry.Status,
	)
	return err
}

// PruneOlderThan deletes audit rows past the retention window and returns the
// number removed.
func (r *AuditRepository) PruneOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	const query = `DELETE FROM audit_log WHERE created_at < $1`
	cmd, err := r.pool.Exec(ctx, query, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
