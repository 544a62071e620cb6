package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shestakov-dev/ClassCompassServer/internal/models"
	appErrors "github.com/shestakov-dev/ClassCompassServer/pkg/errors"
)

type mockAuthRepo struct {
	user             *models.User
	lastLoginUpdated bool
	passwordUpdated  string
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.user == nil || m.user.Email != email {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	m.passwordUpdated = passwordHash
	if m.user != nil && m.user.ID == id {
		m.user.PasswordHash = passwordHash
	}
	return nil
}

type mockTokenStore struct {
	tokens map[string]string
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{tokens: make(map[string]string)}
}

func (m *mockTokenStore) Store(ctx context.Context, token, userID string, ttl time.Duration) error {
	m.tokens[token] = userID
	return nil
}

func (m *mockTokenStore) Resolve(ctx context.Context, token string) (string, error) {
	return m.tokens[token], nil
}

func (m *mockTokenStore) Revoke(ctx context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func newAuthService(repo *mockAuthRepo, tokens *mockTokenStore) *AuthService {
	return NewAuthService(repo, tokens, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "class-compass",
	})
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "u1",
		Email:        "user@example.com",
		PasswordHash: string(hash),
		FullName:     "User One",
		Role:         models.RoleAdmin,
		Active:       true,
	}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "password")}
	tokens := newMockTokenStore()
	svc := newAuthService(repo, tokens)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "u1", res.User.ID)
	assert.True(t, repo.lastLoginUpdated)
	assert.Equal(t, "u1", tokens.tokens[res.RefreshToken])
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "password")}
	svc := newAuthService(repo, newMockTokenStore())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo, newMockTokenStore())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	user := activeUser(t, "password")
	user.Active = false
	repo := &mockAuthRepo{user: user}
	svc := newAuthService(repo, newMockTokenStore())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "password")}
	tokens := newMockTokenStore()
	tokens.tokens["old-token"] = "u1"
	svc := newAuthService(repo, tokens)

	res, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEqual(t, "old-token", res.RefreshToken)
	_, stillThere := tokens.tokens["old-token"]
	assert.False(t, stillThere)
	assert.Equal(t, "u1", tokens.tokens[res.RefreshToken])
}

func TestAuthServiceRefreshUnknownToken(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "password")}
	svc := newAuthService(repo, newMockTokenStore())

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogout(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "password")}
	tokens := newMockTokenStore()
	tokens.tokens["t1"] = "u1"
	svc := newAuthService(repo, tokens)

	require.NoError(t, svc.Logout(context.Background(), "t1", "u1"))
	assert.Empty(t, tokens.tokens)
}

func TestAuthServiceLogoutForeignToken(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "password")}
	tokens := newMockTokenStore()
	tokens.tokens["t1"] = "someone-else"
	svc := newAuthService(repo, tokens)

	err := svc.Logout(context.Background(), "t1", "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Contains(t, tokens.tokens, "t1")
}

func TestAuthServiceChangePassword(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "old-password")}
	svc := newAuthService(repo, newMockTokenStore())

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{OldPassword: "old-password", NewPassword: "new-password"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.user.PasswordHash), []byte("new-password")))
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "old-password")}
	svc := newAuthService(repo, newMockTokenStore())

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{OldPassword: "nope", NewPassword: "new-password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.passwordUpdated)
}

func TestValidateAccessToken(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo, newMockTokenStore())
	user := activeUser(t, "password")

	token, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Role, claims.Role)
}

func TestValidateAccessTokenRejectsTampering(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo, newMockTokenStore())
	other := NewAuthService(repo, newMockTokenStore(), validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "different-secret",
		AccessTokenExpiry: time.Hour,
	})

	token, err := other.generateAccessToken(activeUser(t, "password"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
