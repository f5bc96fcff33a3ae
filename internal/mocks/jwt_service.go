package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, sessionID uuid.UUID, username string) (string, time.Time, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't set
	Token       string
	ExpiresAt   time.Time
	Err         error
	ValidateErr error
	Claims      *auth.Claims

	// GeneratedFor records the session IDs tokens were generated for.
	GeneratedFor []uuid.UUID
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService
func (m *MockJWTService) GenerateToken(
	ctx context.Context,
	sessionID uuid.UUID,
	username string,
) (string, time.Time, error) {
	m.GeneratedFor = append(m.GeneratedFor, sessionID)
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, sessionID, username)
	}
	return m.Token, m.ExpiresAt, m.Err
}

// ValidateToken implements auth.JWTService
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}
