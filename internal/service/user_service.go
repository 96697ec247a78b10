package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/activity"
	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/listview"
	"github.com/medconsole/admin-backend/internal/model"
)

// ProviderNone marks users that only have a profile row.
const ProviderNone = "none"

// UserStats summarizes the end-user list.
type UserStats struct {
	Total        int            `json:"total"`
	ByProvider   map[string]int `json:"by_provider"`
	ByRole       map[string]int `json:"by_role"`
	ByStatus     map[string]int `json:"by_status"`
	NewLast7Days int            `json:"new_last_7_days"`
}

// UserList is the end-user list screen.
type UserList = ListResult[model.User, UserStats]

// UserListSpec searches name, email and phone; categories are provider, role and status.
var UserListSpec = listview.Spec[model.User]{
	Text: []listview.Field[model.User]{
		func(u model.User) string { return u.Name },
		func(u model.User) string { return u.Email },
		func(u model.User) string { return u.Phone },
	},
	Categories: map[string]listview.Field[model.User]{
		"provider": func(u model.User) string { return u.Provider },
		"role":     func(u model.User) string { return u.Role },
		"status":   func(u model.User) string { return u.Status },
	},
}

// MergeUsers joins accounts and profiles by id. Each field takes the profile
// value, else the account metadata value, else a derived default. Ids present
// on only one side are kept. The result is ordered newest first.
func MergeUsers(accounts []model.UserAccount, profiles []model.UserProfile) []model.User {
	byID := make(map[string]model.UserProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	users := make([]model.User, 0, len(accounts)+len(profiles))
	seen := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		p, ok := byID[a.ID]
		var prof *model.UserProfile
		if ok {
			prof = &p
		}
		users = append(users, mergeUser(&a, prof))
		seen[a.ID] = true
	}
	for _, p := range profiles {
		if !seen[p.ID] {
			users = append(users, mergeUser(nil, &p))
		}
	}

	slices.SortStableFunc(users, func(a, b model.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return users
}

func mergeUser(a *model.UserAccount, p *model.UserProfile) model.User {
	var u model.User
	var meta func(string) string
	if a != nil {
		u.ID, u.Email, u.CreatedAt, u.LastSignInAt = a.ID, a.Email, a.CreatedAt, a.LastSignInAt
		u.HasAccount = true
		u.Provider = first(a.Provider, model.DefaultUserProvider)
		meta = a.MetaString
	} else {
		u.ID, u.CreatedAt = p.ID, p.CreatedAt
		u.Provider = ProviderNone
		meta = func(string) string { return "" }
	}

	var pName, pPhone, pAvatar, pRole, pStatus string
	if p != nil {
		u.HasProfile = true
		pName, pPhone, pAvatar = deref(p.FullName), deref(p.Phone), deref(p.AvatarURL)
		pRole, pStatus = deref(p.Role), deref(p.Status)
	}

	u.Name = first(pName, meta("full_name"), meta("name"), emailLocalPart(u.Email))
	u.Phone = first(pPhone, accountPhone(a), meta("phone"))
	u.AvatarURL = first(pAvatar, meta("avatar_url"))
	u.Role = first(pRole, meta("role"), model.DefaultUserRole)
	u.Status = first(pStatus, meta("status"), model.DefaultUserStatus)
	return u
}

func accountPhone(a *model.UserAccount) string {
	if a == nil {
		return ""
	}
	return a.Phone
}

// first returns the first non-blank value.
func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// UserStatsOf computes end-user statistics relative to now.
func UserStatsOf(users []model.User, now time.Time) UserStats {
	return UserStats{
		Total:      len(users),
		ByProvider: listview.CountBy(users, UserListSpec.Categories["provider"]),
		ByRole:     listview.CountBy(users, UserListSpec.Categories["role"]),
		ByStatus:   listview.CountBy(users, UserListSpec.Categories["status"]),
		NewLast7Days: listview.CreatedSince(users, func(u model.User) time.Time { return u.CreatedAt },
			now.Add(-listview.RecentWindow)),
	}
}

// UserService is the end-user list controller. Accounts come from the
// identity directory and profiles from the profiles table.
type UserService struct {
	directory    gateway.IdentityDirectory
	dirFallback  gateway.IdentityDirectory
	profiles     gateway.ProfileStore
	profFallback gateway.ProfileStore
	recorder     activity.Recorder
	log          zerolog.Logger
	timeout      time.Duration
	now          func() time.Time
}

// NewUserService creates a new UserService. Fallbacks may be nil.
func NewUserService(
	directory, dirFallback gateway.IdentityDirectory,
	profiles, profFallback gateway.ProfileStore,
	recorder activity.Recorder,
	timeout time.Duration,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		directory:    directory,
		dirFallback:  dirFallback,
		profiles:     profiles,
		profFallback: profFallback,
		recorder:     recorder,
		log:          log.With().Str("component", "user_service").Logger(),
		timeout:      timeout,
		now:          time.Now,
	}
}

// fetch loads accounts and profiles in parallel. If one source fails the
// other is still merged and a warning is returned; if both fail both errors
// are returned joined.
func (s *UserService) fetch(ctx context.Context) ([]model.User, []string, error) {
	var (
		wg                    sync.WaitGroup
		accounts              []model.UserAccount
		profiles              []model.UserProfile
		accountsErr, profsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var fb func(context.Context) ([]model.UserAccount, error)
		if s.dirFallback != nil {
			fb = s.dirFallback.ListUsers
		}
		accounts, _, accountsErr = gateway.Read(ctx, s.log, "identity.list_users", s.directory.ListUsers, fb)
	}()
	go func() {
		defer wg.Done()
		var fb func(context.Context) ([]model.UserProfile, error)
		if s.profFallback != nil {
			fb = s.profFallback.List
		}
		profiles, _, profsErr = gateway.Read(ctx, s.log, "profiles.list", s.profiles.List, fb)
	}()
	wg.Wait()

	if accountsErr != nil && profsErr != nil {
		return nil, nil, fmt.Errorf("load users: %w", errors.Join(accountsErr, profsErr))
	}

	var warnings []string
	if accountsErr != nil {
		s.log.Warn().Err(accountsErr).Msg("Identity accounts unavailable, showing profiles only")
		warnings = append(warnings, "identity accounts could not be loaded")
	}
	if profsErr != nil {
		s.log.Warn().Err(profsErr).Msg("Profiles unavailable, showing accounts only")
		warnings = append(warnings, "profiles could not be loaded")
	}
	return MergeUsers(accounts, profiles), warnings, nil
}

// listFor returns a list binding whose loader records warnings into w.
func (s *UserService) listFor(w *[]string) lister[model.User, UserStats] {
	now := s.now()
	return lister[model.User, UserStats]{
		load: func(ctx context.Context) ([]model.User, error) {
			users, warnings, err := s.fetch(ctx)
			*w = warnings
			return users, err
		},
		spec:    UserListSpec,
		stats:   func(users []model.User) UserStats { return UserStatsOf(users, now) },
		timeout: s.timeout,
	}
}

// List returns the users matching q.
func (s *UserService) List(ctx context.Context, q listview.Query) (*UserList, error) {
	var warnings []string
	res, err := s.listFor(&warnings).list(ctx, q)
	if err != nil {
		return nil, err
	}
	res.Warnings = warnings
	return res, nil
}

// Delete removes the identity account and the profile row of user id.
// Only admins may delete users.
func (s *UserService) Delete(ctx context.Context, actor *model.Admin, id string, q listview.Query) (*UserList, error) {
	var warnings []string
	res, err := s.listFor(&warnings).mutate(ctx, id, "User deleted", q, func(ctx context.Context) error {
		if actor.Role != model.RoleAdmin {
			return ErrAdminRoleRequired
		}
		return s.deleteUser(ctx, actor, id)
	})
	if err != nil {
		return nil, err
	}
	res.Warnings = warnings
	return res, nil
}

func (s *UserService) deleteUser(ctx context.Context, actor *model.Admin, id string) error {
	accErr := s.directory.DeleteUser(ctx, id)
	if accErr != nil && !apperr.IsKind(accErr, apperr.KindNotFound) {
		return fmt.Errorf("delete identity user: %w", accErr)
	}
	profErr := s.profiles.Delete(ctx, id)
	if profErr != nil && !apperr.IsKind(profErr, apperr.KindNotFound) {
		if accErr == nil {
			s.log.Error().Err(profErr).
				Str("user_id", id).
				Str("actor", actor.Login).
				Msg("Identity account deleted but profile row remains")
		}
		return fmt.Errorf("delete profile: %w", profErr)
	}
	if accErr != nil && profErr != nil {
		return accErr
	}

	s.recorder.Record(ctx, model.Activity{
		AdminID: actor.ID, AdminLogin: actor.Login, Action: model.ActionUserDelete, TargetID: id,
	})
	return nil
}

// UpdateMetadata merges fields into the identity account metadata of user id.
// Changing the role key requires the admin role.
func (s *UserService) UpdateMetadata(ctx context.Context, actor *model.Admin, id string, fields map[string]any, q listview.Query) (*UserList, error) {
	var warnings []string
	res, err := s.listFor(&warnings).mutate(ctx, id, "User updated", q, func(ctx context.Context) error {
		if len(fields) == 0 {
			return ErrEmptyMetadata
		}
		if _, ok := fields["role"]; ok && actor.Role != model.RoleAdmin {
			return ErrAdminRoleRequired
		}
		if _, err := s.directory.UpdateUserMetadata(ctx, id, fields); err != nil {
			return fmt.Errorf("update metadata: %w", err)
		}
		s.recorder.Record(ctx, model.Activity{
			AdminID: actor.ID, AdminLogin: actor.Login, Action: model.ActionUserMetadata,
			TargetID: id, Detail: strings.Join(sortedKeys(fields), ","),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Warnings = warnings
	return res, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
