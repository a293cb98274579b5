package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/sipeslibya/storefront-backend/pkg/auth"
	"github.com/sipeslibya/storefront-backend/pkg/config"
	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/security"
)

type fakeAdminRepo struct {
	admins       map[uuid.UUID]*models.AdminUser
	lastLogins   int
	passwordSets int
}

func newFakeAdminRepo(admins ...*models.AdminUser) *fakeAdminRepo {
	repo := &fakeAdminRepo{admins: make(map[uuid.UUID]*models.AdminUser)}
	for _, admin := range admins {
		repo.admins[admin.ID] = admin
	}
	return repo
}

func (f *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	for _, admin := range f.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAdminRepo) FindByID(_ context.Context, id uuid.UUID) (*models.AdminUser, error) {
	if admin, ok := f.admins[id]; ok {
		return admin, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAdminRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogins++
	if admin, ok := f.admins[id]; ok {
		admin.LastLoginAt = &at
	}
	return nil
}

func (f *fakeAdminRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	f.passwordSets++
	if admin, ok := f.admins[id]; ok {
		admin.PasswordHash = hash
	}
	return nil
}

type fakeSessionManager struct {
	started []string
	revoked []string
}

func (f *fakeSessionManager) Start(_ context.Context, accessID string) error {
	f.started = append(f.started, accessID)
	return nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "sipes-test",
		ExpirationMinutes: 60,
		SessionTTLMinutes: 120,
	}
}

func testAdmin(t *testing.T, email, password string) *models.AdminUser {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	return &models.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		Name:         "مدير المتجر",
		PasswordHash: hash,
		Role:         enums.ActorRoleAdmin,
		IsActive:     true,
	}
}

func newAuthTestService(t *testing.T, admins ...*models.AdminUser) (Service, *fakeAdminRepo, *fakeSessionManager) {
	t.Helper()
	repo := newFakeAdminRepo(admins...)
	sessions := &fakeSessionManager{}
	svc, err := NewService(ServiceParams{
		AdminRepo:      repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{},
	})
	require.NoError(t, err)
	return svc, repo, sessions
}

func TestServiceLoginIssuesSessionBackedToken(t *testing.T) {
	admin := testAdmin(t, "admin@sipes.ly", "correct-horse-battery")
	svc, repo, sessions := newAuthTestService(t, admin)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: " Admin@Sipes.ly ", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.Equal(t, admin.Email, resp.User.Email)
	assert.NotNil(t, resp.User.LastLoginAt)
	assert.Equal(t, 1, repo.lastLogins)
	require.Len(t, sessions.started, 1)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.Equal(t, enums.ActorRoleAdmin, claims.Role)
	assert.Equal(t, sessions.started[0], claims.ID, "jti must match the stored session")
}

func TestServiceLoginRejectsBadPassword(t *testing.T) {
	admin := testAdmin(t, "admin@sipes.ly", "correct-horse-battery")
	svc, _, sessions := newAuthTestService(t, admin)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "admin@sipes.ly", Password: "wrong"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Empty(t, sessions.started)
}

func TestServiceLoginRejectsUnknownAndInactiveAdmins(t *testing.T) {
	inactive := testAdmin(t, "retired@sipes.ly", "correct-horse-battery")
	inactive.IsActive = false
	svc, _, _ := newAuthTestService(t, inactive)
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginRequest{Email: "nobody@sipes.ly", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	_, err = svc.Login(ctx, LoginRequest{Email: "retired@sipes.ly", Password: "correct-horse-battery"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newAuthTestService(t)

	require.NoError(t, svc.Logout(context.Background(), "access-123"))
	assert.Equal(t, []string{"access-123"}, sessions.revoked)

	err := svc.Logout(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceChangePassword(t *testing.T) {
	admin := testAdmin(t, "admin@sipes.ly", "correct-horse-battery")
	svc, repo, _ := newAuthTestService(t, admin)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, admin.ID, ChangePasswordRequest{
		CurrentPassword: "correct-horse-battery",
		NewPassword:     "new-password-123",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.passwordSets)

	valid, err := security.VerifyPassword("new-password-123", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestServiceChangePasswordRejectsWrongCurrent(t *testing.T) {
	admin := testAdmin(t, "admin@sipes.ly", "correct-horse-battery")
	svc, repo, _ := newAuthTestService(t, admin)

	err := svc.ChangePassword(context.Background(), admin.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-123",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	assert.Zero(t, repo.passwordSets)
}

func TestServiceChangePasswordEnforcesMinLength(t *testing.T) {
	admin := testAdmin(t, "admin@sipes.ly", "correct-horse-battery")
	svc, _, _ := newAuthTestService(t, admin)

	err := svc.ChangePassword(context.Background(), admin.ID, ChangePasswordRequest{
		CurrentPassword: "correct-horse-battery",
		NewPassword:     "short",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceGetProfile(t *testing.T) {
	admin := testAdmin(t, "admin@sipes.ly", "correct-horse-battery")
	svc, _, _ := newAuthTestService(t, admin)

	dto, err := svc.GetProfile(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.Name, dto.Name)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
