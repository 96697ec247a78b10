package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
)

const adminColumns = `id::text, login, full_name, phone, role, is_active, password_hash, created_at, updated_at`

// AdminRepository handles simple_admins data access.
type AdminRepository struct {
	pool *pgxpool.Pool
}

var _ gateway.AdminStore = (*AdminRepository)(nil)

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func scanAdmin(row pgx.Row) (*model.Admin, error) {
	a := &model.Admin{}
	err := row.Scan(&a.ID, &a.Login, &a.FullName, &a.Phone, &a.Role, &a.Active, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List retrieves every admin ordered by creation time.
func (r *AdminRepository) List(ctx context.Context) ([]model.Admin, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+adminColumns+` FROM simple_admins ORDER BY created_at, login`)
	if err != nil {
		return nil, classify("admins.list", err)
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, classify("admins.list", err)
		}
		a.PasswordHash = ""
		admins = append(admins, *a)
	}
	return admins, classify("admins.list", rows.Err())
}

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	a, err := scanAdmin(r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM simple_admins WHERE id = $1`, id))
	if err != nil {
		return nil, classify("admins.get", err)
	}
	return a, nil
}

// GetByLogin retrieves an admin by their unique, case-sensitive login.
func (r *AdminRepository) GetByLogin(ctx context.Context, login string) (*model.Admin, error) {
	a, err := scanAdmin(r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM simple_admins WHERE login = $1`, login))
	if err != nil {
		return nil, classify("admins.get_by_login", err)
	}
	return a, nil
}

// Create inserts a new admin.
func (r *AdminRepository) Create(ctx context.Context, a *model.Admin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO simple_admins (login, full_name, phone, role, is_active, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id::text, created_at, updated_at`,
		a.Login, a.FullName, a.Phone, a.Role, a.Active, a.PasswordHash,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return loginConflict(classify("admins.create", err))
}

// Update writes every mutable column. An empty PasswordHash keeps the stored one.
func (r *AdminRepository) Update(ctx context.Context, a *model.Admin) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE simple_admins
		 SET login = $2, full_name = $3, phone = $4, role = $5, is_active = $6,
		     password_hash = COALESCE(NULLIF($7, ''), password_hash),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		a.ID, a.Login, a.FullName, a.Phone, a.Role, a.Active, a.PasswordHash,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return loginConflict(classify("admins.update", err))
}

// Delete hard-deletes an admin.
func (r *AdminRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM simple_admins WHERE id = $1`, id)
	return affected("admins.delete", tag, err)
}

// loginConflict attaches gateway.ErrDuplicateLogin to unique violations.
func loginConflict(err error) error {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind == apperr.KindConflict {
		return apperr.E(apperr.KindConflict, e.Op, gateway.ErrDuplicateLogin)
	}
	return err
}
