package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/goyalg325/wikiserver/internal/auth"
	"github.com/goyalg325/wikiserver/internal/data"
	"github.com/goyalg325/wikiserver/internal/logger"
)

// UserRepository defines the interface for database operations on users.
type UserRepository interface {
	Create(ctx context.Context, user *data.User) error
	GetByUsername(ctx context.Context, username string) (*data.User, error)
	GetAll(ctx context.Context) ([]*data.User, error)
	UpdateRole(ctx context.Context, username, role string) error
	Delete(ctx context.Context, username string) error
}

// UserInfo is the projection of a user that leaves the service. The
// password hash never does.
type UserInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthServicer defines the interface for registration, login and user
// administration.
type AuthServicer interface {
	Register(ctx context.Context, username, password, passwordConfirmation, role string) (*UserInfo, error)
	Login(ctx context.Context, username, password string) (string, error)
	ListUsers(ctx context.Context, identity Identity) ([]UserInfo, error)
	DeleteUser(ctx context.Context, identity Identity, username string) error
	ChangeRole(ctx context.Context, identity Identity, username, role string) error
}

// AuthService handles registration, login and user administration.
type AuthService struct {
	users  UserRepository
	tokens *auth.TokenManager
	log    logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, tokens *auth.TokenManager, log logger.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Register creates a new account. The username is trimmed before any
// validation or lookup. A taken username is reported with the same
// field-level message as a bad login, so registration cannot be used to
// probe for existing accounts.
func (s *AuthService) Register(ctx context.Context, username, password, passwordConfirmation, role string) (*UserInfo, error) {
	username = strings.TrimSpace(username)

	fields := map[string]string{}
	if len(username) < 2 || len(username) > 150 {
		fields["username"] = "username must be between 2 and 150 characters"
	}
	if len(password) < 8 || len(password) > 100 {
		fields["password"] = "password must be between 8 and 100 characters"
	} else if password != passwordConfirmation {
		fields["password"] = "password confirmation does not match"
	}
	if role != RoleAdmin && role != RoleEditor {
		fields["role"] = "invalid role, allowed roles are Editor and Admin"
	}
	if len(fields) > 0 {
		return nil, Validation(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Internal(err, "failed to hash password")
	}

	user := &data.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, data.ErrConflict) {
			return nil, Validation(map[string]string{"username": "invalid credentials"})
		}
		return nil, Internal(err, "failed to create user")
	}

	return &UserInfo{Username: user.Username, Role: user.Role}, nil
}

// Login verifies credentials and issues a bearer token. The returned string
// already carries the "Bearer " prefix.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)

	fields := map[string]string{}
	if username == "" {
		fields["username"] = "username is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return "", Validation(fields)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return "", Validation(map[string]string{"username": "invalid credentials"})
		}
		return "", Internal(err, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", Validation(map[string]string{"username": "invalid credentials"})
	}

	token, err := s.tokens.Generate(user.Username, user.Role)
	if err != nil {
		return "", Internal(err, "failed to issue token")
	}
	return "Bearer " + token, nil
}

// ListUsers returns all accounts without their password hashes. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, identity Identity) ([]UserInfo, error) {
	if identity.Role != RoleAdmin {
		return nil, Forbidden("unauthorized access")
	}
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, Internal(err, "failed to list users")
	}
	infos := make([]UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, UserInfo{Username: u.Username, Role: u.Role})
	}
	return infos, nil
}

// DeleteUser removes an account. Admin only.
func (s *AuthService) DeleteUser(ctx context.Context, identity Identity, username string) error {
	if identity.Role != RoleAdmin {
		return Forbidden("unauthorized access")
	}
	if err := s.users.Delete(ctx, username); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return NotFound("user not found")
		}
		return Internal(err, "failed to delete user")
	}
	return nil
}

// ChangeRole sets another user's role. Admin only; the role check here is
// what keeps a non-admin from demoting an admin even if the route policy is
// misconfigured.
func (s *AuthService) ChangeRole(ctx context.Context, identity Identity, username, role string) error {
	if identity.Role != RoleAdmin {
		return Forbidden("unauthorized access")
	}
	if role != RoleAdmin && role != RoleEditor {
		return Validation(map[string]string{"role": "invalid role, allowed roles are Editor and Admin"})
	}
	if err := s.users.UpdateRole(ctx, username, role); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return NotFound("user not found")
		}
		return Internal(err, "failed to change role")
	}
	return nil
}
