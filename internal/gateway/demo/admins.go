package demo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
)

// AdminStore keeps demo identities in creation order. Password hashes live in
// a separate index keyed by login, so renames must move the entry.
type AdminStore struct {
	mu        sync.RWMutex
	rows      []model.Admin
	passwords map[string]string
	now       func() time.Time
}

var _ gateway.AdminStore = (*AdminStore)(nil)

func newAdminStore(now func() time.Time) *AdminStore {
	return &AdminStore{passwords: make(map[string]string), now: now}
}

func (s *AdminStore) seed(a model.Admin, hash string) {
	s.rows = append(s.rows, a)
	s.passwords[a.Login] = hash
}

// PasswordHash exposes the index entry for login. Used by tests.
func (s *AdminStore) PasswordHash(login string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.passwords[login]
	return h, ok
}

func (s *AdminStore) List(_ context.Context) ([]model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Admin, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *AdminStore) GetByID(_ context.Context, id string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexByID(id)
	if i < 0 {
		return nil, apperr.E(apperr.KindNotFound, "demo.admins.get", gateway.ErrNotFound)
	}
	return s.withHash(s.rows[i]), nil
}

func (s *AdminStore) GetByLogin(_ context.Context, login string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexByLogin(login)
	if i < 0 {
		return nil, apperr.E(apperr.KindNotFound, "demo.admins.get_by_login", gateway.ErrNotFound)
	}
	return s.withHash(s.rows[i]), nil
}

func (s *AdminStore) Create(_ context.Context, a *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexByLogin(a.Login) >= 0 {
		return apperr.E(apperr.KindConflict, "demo.admins.create", gateway.ErrDuplicateLogin)
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := s.now()
	a.CreatedAt, a.UpdatedAt = now, now

	row := *a
	row.PasswordHash = ""
	s.rows = append(s.rows, row)
	s.passwords[a.Login] = a.PasswordHash
	return nil
}

func (s *AdminStore) Update(_ context.Context, a *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexByID(a.ID)
	if i < 0 {
		return apperr.E(apperr.KindNotFound, "demo.admins.update", gateway.ErrNotFound)
	}
	if j := s.indexByLogin(a.Login); j >= 0 && j != i {
		return apperr.E(apperr.KindConflict, "demo.admins.update", gateway.ErrDuplicateLogin)
	}

	old := s.rows[i]
	hash := s.passwords[old.Login]
	if a.PasswordHash != "" {
		hash = a.PasswordHash
	}
	if old.Login != a.Login {
		delete(s.passwords, old.Login)
	}
	s.passwords[a.Login] = hash

	a.CreatedAt = old.CreatedAt
	a.UpdatedAt = s.now()
	row := *a
	row.PasswordHash = ""
	s.rows[i] = row
	return nil
}

func (s *AdminStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexByID(id)
	if i < 0 {
		return apperr.E(apperr.KindNotFound, "demo.admins.delete", gateway.ErrNotFound)
	}
	delete(s.passwords, s.rows[i].Login)
	s.rows = slices.Delete(s.rows, i, i+1)
	return nil
}

func (s *AdminStore) withHash(a model.Admin) *model.Admin {
	a.PasswordHash = s.passwords[a.Login]
	return &a
}

func (s *AdminStore) indexByID(id string) int {
	return slices.IndexFunc(s.rows, func(a model.Admin) bool { return a.ID == id })
}

func (s *AdminStore) indexByLogin(login string) int {
	return slices.IndexFunc(s.rows, func(a model.Admin) bool { return a.Login == login })
}
