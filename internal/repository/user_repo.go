package repository

import (
	"context"
	"errors"
	"fmt"

	"contacts_api/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user accounts
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, id int, refreshToken string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, username, email, password_hash, avatar, role, COALESCE(refresh_token, ''), created_at"

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (username, email, password_hash, avatar, role, created_at)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, sql, user.Username, user.Email, user.PasswordHash, user.Avatar, user.Role, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := "SELECT " + userColumns + " FROM users WHERE email = $1"
	err := r.db.QueryRow(ctx, sql, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Avatar, &user.Role, &user.RefreshToken, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := "SELECT " + userColumns + " FROM users WHERE id = $1"
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Avatar, &user.Role, &user.RefreshToken, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// UpdateRefreshToken stores the latest refresh token issued to a user.
// An empty string clears it.
func (r *userRepository) UpdateRefreshToken(ctx context.Context, id int, refreshToken string) error {
	sql := `UPDATE users SET refresh_token = NULLIF($1, '') WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, refreshToken, id)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for refresh token update")
	}
	return nil
}
