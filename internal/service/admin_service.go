package service

import (
	"context"
	"strconv"
	"time"

	"github.com/medconsole/admin-backend/internal/listview"
	"github.com/medconsole/admin-backend/internal/model"
)

// AdminStats summarizes the identity list.
type AdminStats struct {
	Total  int            `json:"total"`
	Active int            `json:"active"`
	ByRole map[string]int `json:"by_role"`
}

// AdminList is the identity list screen.
type AdminList = ListResult[model.Admin, AdminStats]

// AdminListSpec searches login, full name and phone; categories are role and active ("true"/"false").
var AdminListSpec = listview.Spec[model.Admin]{
	Text: []listview.Field[model.Admin]{
		func(a model.Admin) string { return a.Login },
		func(a model.Admin) string { return a.FullName },
		func(a model.Admin) string { return deref(a.Phone) },
	},
	Categories: map[string]listview.Field[model.Admin]{
		"role":   func(a model.Admin) string { return string(a.Role) },
		"active": func(a model.Admin) string { return strconv.FormatBool(a.Active) },
	},
}

// AdminStatsOf computes identity statistics.
func AdminStatsOf(admins []model.Admin) AdminStats {
	return AdminStats{
		Total:  len(admins),
		Active: listview.CountIf(admins, func(a model.Admin) bool { return a.Active }),
		ByRole: withKeys(listview.CountBy(admins, func(a model.Admin) string { return string(a.Role) }),
			string(model.RoleAdmin), string(model.RoleModerator)),
	}
}

// AdminService is the identity list controller on top of AuthService.
type AdminService struct {
	auth *AuthService
	list lister[model.Admin, AdminStats]
}

// NewAdminService creates a new AdminService.
func NewAdminService(auth *AuthService, timeout time.Duration) *AdminService {
	return &AdminService{
		auth: auth,
		list: lister[model.Admin, AdminStats]{
			load:    auth.ListAdmins,
			spec:    AdminListSpec,
			stats:   AdminStatsOf,
			timeout: timeout,
		},
	}
}

// List returns the identities matching q.
func (s *AdminService) List(ctx context.Context, q listview.Query) (*AdminList, error) {
	return s.list.list(ctx, q)
}

// Create adds an identity and returns it with the refreshed list.
func (s *AdminService) Create(ctx context.Context, actor *model.Admin, req model.CreateAdminRequest, q listview.Query) (*model.Admin, *AdminList, error) {
	var created *model.Admin
	res, err := s.list.mutate(ctx, "", "Admin created", q, func(ctx context.Context) error {
		var err error
		created, err = s.auth.CreateAdmin(ctx, actor, req)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return created, res, nil
}

// Update patches identity id and returns the refreshed list.
func (s *AdminService) Update(ctx context.Context, actor *model.Admin, id string, patch model.AdminPatch, q listview.Query) (*AdminList, error) {
	return s.list.mutate(ctx, id, "Admin updated", q, func(ctx context.Context) error {
		_, err := s.auth.UpdateAdmin(ctx, actor, id, patch)
		return err
	})
}

// Delete removes identity id and returns the refreshed list.
func (s *AdminService) Delete(ctx context.Context, actor *model.Admin, id string, q listview.Query) (*AdminList, error) {
	return s.list.mutate(ctx, id, "Admin deleted", q, func(ctx context.Context) error {
		return s.auth.DeleteAdmin(ctx, actor, id)
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// withKeys ensures every key is present so zero counts are reported.
func withKeys(counts map[string]int, keys ...string) map[string]int {
	for _, k := range keys {
		if _, ok := counts[k]; !ok {
			counts[k] = 0
		}
	}
	return counts
}
