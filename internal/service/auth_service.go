package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/activity"
	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/config"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/password"
	"github.com/medconsole/admin-backend/internal/session"
)

// Claims extends JWT standard claims with the identity's role at login time.
// Authorization decisions reload the identity; the role claim is informational.
type Claims struct {
	jwt.RegisteredClaims
	Role model.AdminRole `json:"role"`
}

// AuthService handles console login, sessions and admin identity management.
type AuthService struct {
	cfg      *config.Config
	admins   gateway.AdminStore
	fallback gateway.AdminStore
	sessions session.Store
	hasher   *password.Hasher
	recorder activity.Recorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService. fallback may be nil, in which case
// an unreachable admin store is reported instead of served from demo data.
func NewAuthService(
	cfg *config.Config,
	admins gateway.AdminStore,
	fallback gateway.AdminStore,
	sessions session.Store,
	hasher *password.Hasher,
	recorder activity.Recorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		cfg:      cfg,
		admins:   admins,
		fallback: fallback,
		sessions: sessions,
		hasher:   hasher,
		recorder: recorder,
		log:      log.With().Str("component", "auth_service").Logger(),
		now:      time.Now,
	}
}

// Login authenticates login/password and opens a new session, replacing any
// previous session of the same identity.
func (s *AuthService) Login(ctx context.Context, login, plain string) (*model.LoginResponse, error) {
	admin, degraded, err := s.readAdmin(ctx, "admins.get_by_login", true,
		func(ctx context.Context, store gateway.AdminStore) (*model.Admin, error) {
			return store.GetByLogin(ctx, login)
		})
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !admin.Active {
		return nil, ErrCredentialsNotFound
	}
	if err := s.hasher.Check(admin.PasswordHash, plain); err != nil {
		return nil, ErrWrongPassword
	}

	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.cfg.SessionTTL())
	jti := uuid.NewString()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   admin.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: admin.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	if err := s.sessions.Save(ctx, session.Session{AdminID: admin.ID, JTI: jti, IssuedAt: issuedAt}); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.log.Info().
		Str("admin_id", admin.ID).
		Str("login", admin.Login).
		Bool("demo", degraded).
		Msg("Admin logged in")
	s.recorder.Record(ctx, model.Activity{AdminID: admin.ID, AdminLogin: admin.Login, Action: model.ActionLogin})

	admin.PasswordHash = ""
	return &model.LoginResponse{
		Token:     signed,
		Admin:     *admin,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout clears the actor's session. It is idempotent.
func (s *AuthService) Logout(ctx context.Context, actor *model.Admin) error {
	if err := s.sessions.Clear(ctx, actor.ID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.recorder.Record(ctx, model.Activity{AdminID: actor.ID, AdminLogin: actor.Login, Action: model.ActionLogout})
	return nil
}

// CurrentIdentity resolves a bearer token to the live identity behind it.
// Expired sessions are cleared on detection.
func (s *AuthService) CurrentIdentity(ctx context.Context, tokenStr string) (*model.Admin, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (any, error) { return []byte(s.cfg.JWTSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		// The session record decides the exact 24h boundary.
		jwt.WithLeeway(time.Second),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && claims.Subject != "" {
			s.clearQuietly(ctx, claims.Subject)
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	sess, err := s.sessions.Read(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if sess == nil || sess.JTI != claims.ID {
		return nil, ErrSessionRevoked
	}
	if s.now().Sub(sess.IssuedAt) > s.cfg.SessionTTL() {
		s.clearQuietly(ctx, sess.AdminID)
		return nil, ErrSessionExpired
	}

	admin, _, err := s.readAdmin(ctx, "admins.get", false,
		func(ctx context.Context, store gateway.AdminStore) (*model.Admin, error) {
			return store.GetByID(ctx, sess.AdminID)
		})
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			s.clearQuietly(ctx, sess.AdminID)
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if !admin.Active {
		s.clearQuietly(ctx, sess.AdminID)
		return nil, ErrSessionRevoked
	}
	admin.PasswordHash = ""
	return admin, nil
}

// ListAdmins returns every identity. Reads degrade to demo data.
func (s *AuthService) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	var fb func(context.Context) ([]model.Admin, error)
	if s.fallback != nil {
		fb = s.fallback.List
	}
	admins, _, err := gateway.Read(ctx, s.log, "admins.list", withTimeout(s.cfg.GatewayTimeout(), s.admins.List), fb)
	return admins, err
}

// CreateAdmin inserts a new identity. Only admins may create identities and
// the login must not be taken.
func (s *AuthService) CreateAdmin(ctx context.Context, actor *model.Admin, req model.CreateAdminRequest) (*model.Admin, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrAdminRoleRequired
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := s.ensureLoginFree(ctx, req.Login, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	admin := &model.Admin{
		Login:        req.Login,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         req.Role,
		Active:       req.Active == nil || *req.Active,
		PasswordHash: hash,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil, ErrLoginTaken
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.recorder.Record(ctx, model.Activity{
		AdminID: actor.ID, AdminLogin: actor.Login, Action: model.ActionAdminCreate,
		TargetID: admin.ID, Detail: admin.Login,
	})
	admin.PasswordHash = ""
	return admin, nil
}

// UpdateAdmin applies patch to identity id. Admins may change anything;
// moderators may change only their own name, phone and password.
func (s *AuthService) UpdateAdmin(ctx context.Context, actor *model.Admin, id string, patch model.AdminPatch) (*model.Admin, error) {
	if actor.Role != model.RoleAdmin {
		if actor.ID != id || patch.Login != nil || patch.Role != nil || patch.Active != nil {
			return nil, ErrNotOwnRecord
		}
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, ErrInvalidRole
	}

	current, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	if patch.Empty() {
		current.PasswordHash = ""
		return current, nil
	}

	if patch.Login != nil && *patch.Login != current.Login {
		if err := s.ensureLoginFree(ctx, *patch.Login, id); err != nil {
			return nil, err
		}
	}

	losesAdmin := current.Active && current.Role == model.RoleAdmin &&
		((patch.Role != nil && *patch.Role != model.RoleAdmin) || (patch.Active != nil && !*patch.Active))
	if losesAdmin {
		if err := s.ensureAnotherAdmin(ctx, id); err != nil {
			return nil, err
		}
	}

	updated := *current
	updated.PasswordHash = ""
	if patch.Login != nil {
		updated.Login = *patch.Login
	}
	if patch.FullName != nil {
		updated.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		updated.Phone = patch.Phone
		if *patch.Phone == "" {
			updated.Phone = nil
		}
	}
	if patch.Role != nil {
		updated.Role = *patch.Role
	}
	if patch.Active != nil {
		updated.Active = *patch.Active
	}
	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}

	if err := s.admins.Update(ctx, &updated); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil, ErrLoginTaken
		}
		return nil, fmt.Errorf("update admin: %w", err)
	}

	if patch.Password != nil || !updated.Active {
		s.clearQuietly(ctx, id)
	}
	s.recorder.Record(ctx, model.Activity{
		AdminID: actor.ID, AdminLogin: actor.Login, Action: model.ActionAdminUpdate,
		TargetID: id, Detail: updated.Login,
	})
	updated.PasswordHash = ""
	return &updated, nil
}

// DeleteAdmin hard-deletes identity id. Admins cannot delete themselves or
// the last active admin.
func (s *AuthService) DeleteAdmin(ctx context.Context, actor *model.Admin, id string) error {
	if actor.Role != model.RoleAdmin {
		return ErrAdminRoleRequired
	}
	if actor.ID == id {
		return ErrSelfDelete
	}

	target, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load admin: %w", err)
	}
	if target.Active && target.Role == model.RoleAdmin {
		if err := s.ensureAnotherAdmin(ctx, id); err != nil {
			return err
		}
	}

	if err := s.admins.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	s.clearQuietly(ctx, id)
	s.recorder.Record(ctx, model.Activity{
		AdminID: actor.ID, AdminLogin: actor.Login, Action: model.ActionAdminDelete,
		TargetID: id, Detail: target.Login,
	})
	return nil
}

// ensureLoginFree fails with ErrLoginTaken if login belongs to an identity other than selfID.
func (s *AuthService) ensureLoginFree(ctx context.Context, login, selfID string) error {
	existing, err := s.admins.GetByLogin(ctx, login)
	switch {
	case err == nil:
		if existing.ID != selfID {
			return ErrLoginTaken
		}
		return nil
	case apperr.IsKind(err, apperr.KindNotFound):
		return nil
	default:
		return fmt.Errorf("check login: %w", err)
	}
}

// ensureAnotherAdmin fails with ErrLastAdmin unless an active admin other than id exists.
func (s *AuthService) ensureAnotherAdmin(ctx context.Context, id string) error {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	for _, a := range admins {
		if a.ID != id && a.Active && a.Role == model.RoleAdmin {
			return nil
		}
	}
	return ErrLastAdmin
}

// readAdmin reads one identity from the primary store and, when it is
// unreachable, from the fallback store after the configured demo latency.
func (s *AuthService) readAdmin(
	ctx context.Context,
	op string,
	delay bool,
	get func(context.Context, gateway.AdminStore) (*model.Admin, error),
) (*model.Admin, bool, error) {
	primary := func(ctx context.Context) (*model.Admin, error) { return get(ctx, s.admins) }

	var fb func(context.Context) (*model.Admin, error)
	if s.fallback != nil {
		fb = func(fctx context.Context) (*model.Admin, error) {
			if delay {
				if err := sleepCtx(ctx, s.cfg.DemoLatency()); err != nil {
					return nil, err
				}
			}
			return get(fctx, s.fallback)
		}
	}
	return gateway.Read(ctx, s.log, op, withTimeout(s.cfg.GatewayTimeout(), primary), fb)
}

func (s *AuthService) clearQuietly(ctx context.Context, adminID string) {
	if err := s.sessions.Clear(context.WithoutCancel(ctx), adminID); err != nil {
		s.log.Warn().Err(err).Str("admin_id", adminID).Msg("Failed to clear session")
	}
}
