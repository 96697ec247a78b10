package demo

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
)

var (
	_ gateway.ProfileStore      = (*ProfileStore)(nil)
	_ gateway.ConsultationStore = (*ConsultationStore)(nil)
	_ gateway.IdentityDirectory = (*Directory)(nil)
	_ gateway.ActivityStore     = (*ActivityStore)(nil)
)

// ProfileStore is the demo profiles table.
type ProfileStore struct {
	mu   sync.RWMutex
	rows []model.UserProfile
}

func (s *ProfileStore) List(_ context.Context) ([]model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rows), nil
}

func (s *ProfileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.rows, func(p model.UserProfile) bool { return p.ID == id })
	if i < 0 {
		return apperr.E(apperr.KindNotFound, "demo.profiles.delete", gateway.ErrNotFound)
	}
	s.rows = slices.Delete(s.rows, i, i+1)
	return nil
}

// ConsultationStore is the demo consultation_requests table.
type ConsultationStore struct {
	mu   sync.RWMutex
	rows []model.Consultation
	now  func() time.Time
}

func (s *ConsultationStore) List(_ context.Context) ([]model.Consultation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(s.rows)
	slices.SortStableFunc(out, func(a, b model.Consultation) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *ConsultationStore) Create(_ context.Context, c *model.Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = model.StatusPending
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	s.rows = append(s.rows, *c)
	return nil
}

func (s *ConsultationStore) UpdateStatus(_ context.Context, id string, status model.ConsultationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return apperr.E(apperr.KindNotFound, "demo.consultations.update_status", gateway.ErrNotFound)
	}
	s.rows[i].Status = status
	s.rows[i].UpdatedAt = s.now()
	return nil
}

func (s *ConsultationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return apperr.E(apperr.KindNotFound, "demo.consultations.delete", gateway.ErrNotFound)
	}
	s.rows = slices.Delete(s.rows, i, i+1)
	return nil
}

func (s *ConsultationStore) index(id string) int {
	return slices.IndexFunc(s.rows, func(c model.Consultation) bool { return c.ID == id })
}

// Directory is the demo identity-admin API.
type Directory struct {
	mu    sync.RWMutex
	users []model.UserAccount
}

func (d *Directory) ListUsers(_ context.Context) ([]model.UserAccount, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.UserAccount, len(d.users))
	for i, u := range d.users {
		u.Metadata = maps.Clone(u.Metadata)
		out[i] = u
	}
	return out, nil
}

func (d *Directory) DeleteUser(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.index(id)
	if i < 0 {
		return apperr.E(apperr.KindNotFound, "demo.identity.delete_user", gateway.ErrNotFound)
	}
	d.users = slices.Delete(d.users, i, i+1)
	return nil
}

// UpdateUserMetadata merges fields into the stored metadata. A nil value removes the key.
func (d *Directory) UpdateUserMetadata(_ context.Context, id string, fields map[string]any) (*model.UserAccount, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.index(id)
	if i < 0 {
		return nil, apperr.E(apperr.KindNotFound, "demo.identity.update_metadata", gateway.ErrNotFound)
	}

	meta := maps.Clone(d.users[i].Metadata)
	if meta == nil {
		meta = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if v == nil {
			delete(meta, k)
			continue
		}
		meta[k] = v
	}
	d.users[i].Metadata = meta

	u := d.users[i]
	u.Metadata = maps.Clone(meta)
	return &u, nil
}

func (d *Directory) index(id string) int {
	return slices.IndexFunc(d.users, func(u model.UserAccount) bool { return u.ID == id })
}

// ActivityStore is the demo admin_activity table.
type ActivityStore struct {
	mu     sync.RWMutex
	rows   []model.Activity
	nextID int64
	now    func() time.Time
}

func (s *ActivityStore) Insert(_ context.Context, a *model.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a.ID = s.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	s.rows = append(s.rows, *a)
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (s *ActivityStore) ListRecent(_ context.Context, limit int) ([]model.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(s.rows)
	slices.SortStableFunc(out, func(a, b model.Activity) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
