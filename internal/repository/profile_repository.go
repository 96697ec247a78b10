package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
)

// ProfileRepository handles profiles data access.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

var _ gateway.ProfileStore = (*ProfileRepository)(nil)

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// List retrieves every profile row.
func (r *ProfileRepository) List(ctx context.Context) ([]model.UserProfile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, full_name, phone, avatar_url, role, status, created_at, updated_at
		 FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, classify("profiles.list", err)
	}
	defer rows.Close()

	var profiles []model.UserProfile
	for rows.Next() {
		var p model.UserProfile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Phone, &p.AvatarURL, &p.Role, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, classify("profiles.list", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, classify("profiles.list", rows.Err())
}

// Delete removes a profile row.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	return affected("profiles.delete", tag, err)
}
