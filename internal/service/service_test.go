package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medconsole/admin-backend/internal/activity"
	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/config"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/gateway/demo"
	"github.com/medconsole/admin-backend/internal/logger"
	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/password"
	"github.com/medconsole/admin-backend/internal/session"
)

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:             "test-secret",
		SessionTTLHours:       24,
		BcryptCost:            bcrypt.MinCost,
		GatewayTimeoutSeconds: 2,
		DemoFallback:          true,
		DemoLatencyMS:         5,
	}
}

type authFixture struct {
	auth     *AuthService
	ds       *demo.Dataset
	sessions *session.MemoryStore
	hasher   *password.Hasher
}

// newAuthFixture wires an AuthService over primary; a nil primary runs demo mode.
func newAuthFixture(t *testing.T, primary gateway.AdminStore) *authFixture {
	t.Helper()

	h := password.NewHasher(bcrypt.MinCost)
	ds := demo.New(h, nil)
	sessions := session.NewMemoryStore(64, time.Hour*48)

	var fallback gateway.AdminStore
	if primary == nil {
		primary = ds.Admins
	} else {
		fallback = ds.Admins
	}
	auth := NewAuthService(testConfig(), primary, fallback, sessions, h,
		activity.NewStoreRecorder(ds.Activity, logger.Nop()), logger.Nop())
	return &authFixture{auth: auth, ds: ds, sessions: sessions, hasher: h}
}

func (f *authFixture) actor(t *testing.T, login string) *model.Admin {
	t.Helper()
	a, err := f.ds.Admins.GetByLogin(context.Background(), login)
	require.NoError(t, err)
	a.PasswordHash = ""
	return a
}

func (f *authFixture) login(t *testing.T, login, plain string) *model.LoginResponse {
	t.Helper()
	res, err := f.auth.Login(context.Background(), login, plain)
	require.NoError(t, err)
	return res
}

var errRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

func unavailable(op string) error {
	return apperr.E(apperr.KindUnavailable, op, errRefused)
}

// downAdminStore is a database that cannot be reached.
type downAdminStore struct{}

func (downAdminStore) List(context.Context) ([]model.Admin, error) {
	return nil, unavailable("admins.list")
}
func (downAdminStore) GetByID(context.Context, string) (*model.Admin, error) {
	return nil, unavailable("admins.get")
}
func (downAdminStore) GetByLogin(context.Context, string) (*model.Admin, error) {
	return nil, unavailable("admins.get_by_login")
}
func (downAdminStore) Create(context.Context, *model.Admin) error {
	return unavailable("admins.create")
}
func (downAdminStore) Update(context.Context, *model.Admin) error {
	return unavailable("admins.update")
}
func (downAdminStore) Delete(context.Context, string) error {
	return unavailable("admins.delete")
}

// emptyAdminStore is a reachable database with no identities.
type emptyAdminStore struct{ downAdminStore }

func (emptyAdminStore) GetByLogin(context.Context, string) (*model.Admin, error) {
	return nil, apperr.E(apperr.KindNotFound, "admins.get_by_login", gateway.ErrNotFound)
}

type downDirectory struct{}

func (downDirectory) ListUsers(context.Context) ([]model.UserAccount, error) {
	return nil, unavailable("identity.list_users")
}
func (downDirectory) DeleteUser(context.Context, string) error {
	return unavailable("identity.delete_user")
}
func (downDirectory) UpdateUserMetadata(context.Context, string, map[string]any) (*model.UserAccount, error) {
	return nil, unavailable("identity.update_user")
}

type downProfiles struct{}

func (downProfiles) List(context.Context) ([]model.UserProfile, error) {
	return nil, unavailable("profiles.list")
}
func (downProfiles) Delete(context.Context, string) error {
	return unavailable("profiles.delete")
}
