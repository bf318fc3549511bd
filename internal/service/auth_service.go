package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"contacts_api/internal/cache"
	"contacts_api/internal/model"
	"contacts_api/internal/repository"
	"contacts_api/internal/utils"
)

var (
	ErrUserAlreadyExists  = errors.New("account with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

// TokenPair is the result of a successful login or refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService provides account and token related services
type AuthService interface {
	Signup(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetCurrentUser(ctx context.Context, userID int) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	userCache *cache.UserCache
	jwtUtil   *utils.JWTUtil
}

// NewAuthService creates a new AuthService. userCache may be nil, in which
// case every current-user lookup goes to the database.
func NewAuthService(userRepo repository.UserRepository, userCache *cache.UserCache, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo:  userRepo,
		userCache: userCache,
		jwtUtil:   jwtUtil,
	}
}

// Signup creates a new account with the default role
func (s *authService) Signup(ctx context.Context, username, email, password string) (*model.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userRole := model.RoleUser // Default role

	// Check for initial admin setup via environment variable
	initialAdminEmail := os.Getenv("INITIAL_ADMIN_EMAIL")
	if initialAdminEmail != "" && email == initialAdminEmail {
		userRole = model.RoleAdmin
		log.Printf("INFO: User %s is being registered as ADMIN via INITIAL_ADMIN_EMAIL.", email)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         userRole,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, nil
}

// Login authenticates a user and returns an access/refresh token pair
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh pair. The token
// must match the one stored for the user; a mismatch clears the stored token
// so a stolen old token cannot be replayed.
func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtUtil.ValidateToken(refreshToken, utils.ScopeRefresh)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("error finding user for refresh: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidRefresh
	}

	if user.RefreshToken != refreshToken {
		if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, ""); err != nil {
			log.Printf("ERROR: failed to clear refresh token for user %d: %v", user.ID, err)
		}
		return nil, ErrInvalidRefresh
	}

	return s.issueTokens(ctx, user)
}

// GetCurrentUser resolves the authenticated user for a request, preferring
// the cache and falling back to the database.
func (s *authService) GetCurrentUser(ctx context.Context, userID int) (*model.User, error) {
	if s.userCache != nil {
		cached, err := s.userCache.Get(ctx, userID)
		if err != nil {
			log.Printf("WARN: user cache read failed, falling back to DB: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if s.userCache != nil {
		if err := s.userCache.Set(ctx, user); err != nil {
			log.Printf("WARN: failed to cache user %d: %v", user.ID, err)
		}
	}
	return user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, refresh, err := s.jwtUtil.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}
	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
