package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
)

// ConsultationRepository handles consultation_requests data access.
type ConsultationRepository struct {
	pool *pgxpool.Pool
}

var _ gateway.ConsultationStore = (*ConsultationRepository)(nil)

// NewConsultationRepository creates a new ConsultationRepository.
func NewConsultationRepository(pool *pgxpool.Pool) *ConsultationRepository {
	return &ConsultationRepository{pool: pool}
}

// List retrieves every request, newest first.
func (r *ConsultationRepository) List(ctx context.Context) ([]model.Consultation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, first_name, last_name, age, disease_type, phone, comments, status, created_at, updated_at
		 FROM consultation_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, classify("consultations.list", err)
	}
	defer rows.Close()

	var out []model.Consultation
	for rows.Next() {
		var c model.Consultation
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Age, &c.DiseaseType, &c.Phone, &c.Comments, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, classify("consultations.list", err)
		}
		out = append(out, c)
	}
	return out, classify("consultations.list", rows.Err())
}

// Create inserts a new request. An empty status is stored as pending.
func (r *ConsultationRepository) Create(ctx context.Context, c *model.Consultation) error {
	if c.Status == "" {
		c.Status = model.StatusPending
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO consultation_requests (first_name, last_name, age, disease_type, phone, comments, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id::text, created_at, updated_at`,
		c.FirstName, c.LastName, c.Age, c.DiseaseType, c.Phone, c.Comments, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return classify("consultations.create", err)
}

// UpdateStatus sets the status of one request.
func (r *ConsultationRepository) UpdateStatus(ctx context.Context, id string, status model.ConsultationStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE consultation_requests SET status = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		id, status)
	return affected("consultations.update_status", tag, err)
}

// Delete hard-deletes a request.
func (r *ConsultationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM consultation_requests WHERE id = $1`, id)
	return affected("consultations.delete", tag, err)
}
