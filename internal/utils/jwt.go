package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
)

// JWTClaims custom claims for JWT
type JWTClaims struct {
	UserID int    `json:"user_id"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTUtil provides JWT generation and validation
type JWTUtil struct {
	secretKey        string
	accessExpMinutes int64
	refreshExpHours  int64
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey string, accessExpMinutes, refreshExpHours int64) *JWTUtil {
	return &JWTUtil{
		secretKey:        secretKey,
		accessExpMinutes: accessExpMinutes,
		refreshExpHours:  refreshExpHours,
	}
}

// GenerateTokenPair generates a new access/refresh token pair for a user
func (ju *JWTUtil) GenerateTokenPair(userID int) (string, string, error) {
	access, err := ju.generate(userID, ScopeAccess, time.Duration(ju.accessExpMinutes)*time.Minute)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := ju.generate(userID, ScopeRefresh, time.Duration(ju.refreshExpHours)*time.Hour)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return access, refresh, nil
}

func (ju *JWTUtil) generate(userID int, scope string, ttl time.Duration) (string, error) {
	claims := &JWTClaims{
		UserID: userID,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   strconv.Itoa(userID),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ju.secretKey))
}

// ValidateToken validates a token and checks it carries the expected scope
func (ju *JWTUtil) ValidateToken(tokenString, expectedScope string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ju.secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Scope != expectedScope {
		return nil, fmt.Errorf("invalid token scope: expected %s, got %s", expectedScope, claims.Scope)
	}
	return claims, nil
}
