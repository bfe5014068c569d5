package auth

import (
	"context"
	"fmt"

	"github.com/store-mgmt/store-api/internal/shared"
	"github.com/store-mgmt/store-api/internal/users"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         Identity `json:"user"`
}

// Service wraps authentication business rules.
type Service struct {
	store  users.Store
	tokens *TokenManager
}

// NewService constructs a new Service.
func NewService(store users.Store, tokens *TokenManager) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates a subject. Duplicate usernames surface as
// shared.ErrDuplicate.
func (s *Service) Register(ctx context.Context, username, password, role string) (*users.User, error) {
	return s.store.Create(ctx, username, password, role)
}

// Login validates username/password credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.store.FindByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !users.ComparePassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:        access,
		RefreshToken: refresh,
		User:         Identity{ID: user.ID, Username: user.Username, Role: user.Role},
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. Any
// failure is reported as ErrInvalidRefreshToken wrapping the cause.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken, TokenRefresh)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	if user == nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRefreshToken, ErrSubjectNotFound)
	}
	return s.tokens.IssueAccess(claims.UserID)
}

// Profile returns the current record of subject id.
func (s *Service) Profile(ctx context.Context, id string) (*users.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotFound
	}
	return user, nil
}
