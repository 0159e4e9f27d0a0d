package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// UserRepository handles database operations for user accounts.
type UserRepository struct {
	DB *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new user. Returns ErrConflict when the username is taken.
func (r *UserRepository) Create(ctx context.Context, user *User) error {
	user.CreatedAt = time.Now().UTC()
	query := `INSERT INTO users (username, password_hash, role, created_at) VALUES (:username, :password_hash, :role, :created_at)`
	res, err := r.DB.NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		user.ID = id
	}
	return nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := `SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`
	if err := r.DB.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetAll retrieves all users.
func (r *UserRepository) GetAll(ctx context.Context) ([]*User, error) {
	var users []*User
	query := `SELECT id, username, password_hash, role, created_at FROM users ORDER BY username`
	if err := r.DB.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// UpdateRole changes a user's role. Returns ErrNotFound if the user is absent.
func (r *UserRepository) UpdateRole(ctx context.Context, username, role string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET role = ? WHERE username = ?`, role, username)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user by username. Returns ErrNotFound if the user is absent.
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
