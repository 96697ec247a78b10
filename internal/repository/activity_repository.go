package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
)

// ActivityRepository handles admin_activity data access.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

var _ gateway.ActivityStore = (*ActivityRepository)(nil)

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Insert appends an entry. A zero CreatedAt is set by the database.
func (r *ActivityRepository) Insert(ctx context.Context, a *model.Activity) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admin_activity (admin_id, admin_login, action, target_id, detail, created_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), COALESCE($6, CURRENT_TIMESTAMP))
		 RETURNING id, created_at`,
		a.AdminID, a.AdminLogin, a.Action, a.TargetID, a.Detail, nullTime(a),
	).Scan(&a.ID, &a.CreatedAt)
	return classify("activity.insert", err)
}

// ListRecent retrieves up to limit entries, newest first.
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]model.Activity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, admin_id::text, admin_login, action, COALESCE(target_id, ''), COALESCE(detail, ''), created_at
		 FROM admin_activity ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, classify("activity.list", err)
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.AdminID, &a.AdminLogin, &a.Action, &a.TargetID, &a.Detail, &a.CreatedAt); err != nil {
			return nil, classify("activity.list", err)
		}
		out = append(out, a)
	}
	return out, classify("activity.list", rows.Err())
}

func nullTime(a *model.Activity) any {
	if a.CreatedAt.IsZero() {
		return nil
	}
	return a.CreatedAt
}
