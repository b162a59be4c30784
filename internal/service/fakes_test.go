package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"esls/api/internal/config"
	"esls/api/internal/models"
	"esls/api/internal/repository"
	"esls/api/internal/store"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTSecret:     "test-secret",
			SessionTTL:    30 * time.Minute,
			VerifyCodeTTL: 5 * time.Minute,
			ActivationTTL: 24 * time.Hour,
			CodeLength:    6,
		},
		SMS: config.SMSConfig{Timeout: time.Second},
	}
}

func newTestStore(t *testing.T) (*store.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return store.New(client), mr
}

// fakeUsers is an in-memory UserDirectory.
type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{nextID: 1, byID: make(map[int64]models.User)}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = f.nextID
		}
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.nextID
	f.nextID++
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id int64) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUsers) findWhere(match func(models.User) bool) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUsers) FindByName(_ context.Context, name string) (models.User, error) {
	return f.findWhere(func(u models.User) bool { return u.Name == name })
}

func (f *fakeUsers) FindByTelephone(_ context.Context, tel string) (models.User, error) {
	return f.findWhere(func(u models.User) bool { return u.Telephone != "" && u.Telephone == tel })
}

func (f *fakeUsers) FindByMail(_ context.Context, mail string) (models.User, error) {
	return f.findWhere(func(u models.User) bool { return u.Mail != "" && u.Mail == mail })
}

func (f *fakeUsers) Save(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, hash, raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.RawPassword = raw
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) UpdateActivateStatus(_ context.Context, id int64, status byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ActivateStatus = status
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) UpdateStatus(_ context.Context, id int64, status byte) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return 0, nil
	}
	u.Status = status
	f.byID[id] = u
	return 1, nil
}

type roleLink struct {
	roleID int64
	userID int64
}

// fakeRoles is an in-memory RoleDirectory.
type fakeRoles struct {
	mu        sync.Mutex
	roles     map[int64]models.Role
	baseRoles []int64
	links     map[roleLink]struct{}
	grantErr  error
	perms     map[int64][]string
}

func newFakeRoles(roles ...models.Role) *fakeRoles {
	f := &fakeRoles{
		roles: make(map[int64]models.Role),
		links: make(map[roleLink]struct{}),
		perms: make(map[int64][]string),
	}
	for _, r := range roles {
		f.roles[r.ID] = r
	}
	return f
}

func (f *fakeRoles) FindByID(_ context.Context, id int64) (models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.roles[id]; ok {
		return r, nil
	}
	return models.Role{}, repository.ErrRoleNotFound
}

func (f *fakeRoles) ListByUser(_ context.Context, userID int64) ([]models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Role, 0)
	for link := range f.links {
		if link.userID == userID {
			out = append(out, f.roles[link.roleID])
		}
	}
	return out, nil
}

func (f *fakeRoles) LinkUserRole(_ context.Context, roleID, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := roleLink{roleID, userID}
	if _, ok := f.links[key]; ok {
		return 0, nil
	}
	f.links[key] = struct{}{}
	return 1, nil
}

func (f *fakeRoles) UnlinkUserRole(_ context.Context, roleID, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := roleLink{roleID, userID}
	if _, ok := f.links[key]; !ok {
		return 0, nil
	}
	delete(f.links, key)
	return 1, nil
}

func (f *fakeRoles) GrantBaseRoles(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.grantErr != nil {
		return f.grantErr
	}
	for _, roleID := range f.baseRoles {
		f.links[roleLink{roleID, userID}] = struct{}{}
	}
	return nil
}

func (f *fakeRoles) ListPermissionNames(_ context.Context, userID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perms[userID], nil
}

func (f *fakeRoles) linked(roleID, userID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.links[roleLink{roleID, userID}]
	return ok
}

// fakeSender records dispatches instead of calling a gateway.
type fakeSender struct {
	mu         sync.Mutex
	dispatches []fakeDispatch
	err        error
}

type fakeDispatch struct {
	phone  string
	params [3]string
}

func (f *fakeSender) Dispatch(_ context.Context, phone string, params [3]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.dispatches = append(f.dispatches, fakeDispatch{phone: phone, params: params})
	return "sid-test", nil
}

// fakeMailer records activation mails.
type fakeMailer struct {
	mu   sync.Mutex
	sent []string // codes
	err  error
	to   []string
}

func (f *fakeMailer) SendActivation(to, _, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, code)
	return nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
