package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/auth"
	"github.com/phrazzld/scry-study/internal/mocks"
	"github.com/phrazzld/scry-study/internal/session"
)

func newTestRegistry(t *testing.T) *session.Registry {
	t.Helper()
	return session.NewRegistry(10, time.Hour, "server-key",
		func(context.Context, string) (*session.Workspace, error) {
			return &session.Workspace{Model: "test-model"}, nil
		}, nil)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	live, err := reg.Create(context.Background(), "student", "")
	require.NoError(t, err)

	tests := []struct {
		name        string
		authHeader  string
		claims      *auth.Claims
		validateErr error
		wantStatus  int
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good",
			claims:     &auth.Claims{SessionID: live.ID},
			wantStatus: http.StatusOK,
		},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "no token", authHeader: "Bearer ", wantStatus: http.StatusUnauthorized},
		{
			name:        "expired token",
			authHeader:  "Bearer old",
			validateErr: auth.ErrExpiredToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "invalid token",
			authHeader:  "Bearer forged",
			validateErr: auth.ErrInvalidToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "unexpected validation failure",
			authHeader:  "Bearer x",
			validateErr: errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
		},
		{
			name:       "session gone",
			authHeader: "Bearer good",
			claims:     &auth.Claims{SessionID: uuid.New()},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			jwt := &mocks.MockJWTService{Claims: tc.claims, ValidateErr: tc.validateErr}
			mw := NewAuthMiddleware(jwt, reg)

			var seen *session.Session
			handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = shared.GetSession(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, live.ID, seen.ID)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestAuthMiddleware_SerializesSessionRequests(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	s, err := reg.Create(context.Background(), "student", "")
	require.NoError(t, err)

	jwt := &mocks.MockJWTService{Claims: &auth.Claims{SessionID: s.ID}}
	mw := NewAuthMiddleware(jwt, reg)

	entered := make(chan struct{})
	release := make(chan struct{})
	slow := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	}))

	go func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer t")
		slow.ServeHTTP(httptest.NewRecorder(), req)
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("second request must not run while the first holds the session")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	close(release)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := BearerToken(req)
	assert.ErrorIs(t, err, auth.ErrMissingToken)

	req.Header.Set("Authorization", "Bearer abc")
	tok, err := BearerToken(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	req.Header.Set("Authorization", "Bearer a b")
	_, err = BearerToken(req)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
