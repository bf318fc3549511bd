package service

import (
	"context"
	"testing"
	"time"

	"contacts_api/internal/model"
	"contacts_api/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockUserRepo is an in-memory UserRepository for auth service tests
type mockUserRepo struct {
	users  map[int]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[int]*model.User{}, nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = m.nextID
	m.nextID++
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) UpdateRefreshToken(_ context.Context, id int, refreshToken string) error {
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	u.RefreshToken = refreshToken
	return nil
}

func newTestAuthService(repo *mockUserRepo) AuthService {
	return NewAuthService(repo, nil, utils.NewJWTUtil("test-secret", 15, 168))
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "annlee", "ann@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	loggedIn, pair, err := svc.Login(ctx, "ann@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "annlee", "ann@x.com", "password123")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "otherann", "ann@x.com", "password456")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "annlee", "ann@x.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ann@x.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@x.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshTokens(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "annlee", "ann@x.com", "password123")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "ann@x.com", "password123")
	require.NoError(t, err)

	// jti differs per token, so the same second still yields a fresh pair
	newPair, err := svc.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)
	assert.Equal(t, newPair.RefreshToken, repo.users[user.ID].RefreshToken)
}

func TestAuthService_RefreshTokens_StaleTokenRejectedAndCleared(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "annlee", "ann@x.com", "password123")
	require.NoError(t, err)
	_, firstPair, err := svc.Login(ctx, "ann@x.com", "password123")
	require.NoError(t, err)

	// A second login rotates the stored refresh token
	_, _, err = svc.Login(ctx, "ann@x.com", "password123")
	require.NoError(t, err)

	_, err = svc.RefreshTokens(ctx, firstPair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
	assert.Empty(t, repo.users[user.ID].RefreshToken, "stored token is cleared on replay")
}

func TestAuthService_RefreshTokens_AccessTokenRejected(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "annlee", "ann@x.com", "password123")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "ann@x.com", "password123")
	require.NoError(t, err)

	_, err = svc.RefreshTokens(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "annlee", "ann@x.com", "password123")
	require.NoError(t, err)

	user, err := svc.GetCurrentUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "annlee", user.Username)

	_, err = svc.GetCurrentUser(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_InitialAdminEmail(t *testing.T) {
	t.Setenv("INITIAL_ADMIN_EMAIL", "boss@x.com")

	repo := newMockUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	admin, err := svc.Signup(ctx, "bigboss", "boss@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.WithinDuration(t, time.Now(), admin.CreatedAt, 5*time.Second)

	regular, err := svc.Signup(ctx, "annlee", "ann@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, regular.Role)
}
