package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbenedetti/viaggio/internal/middleware"
)

// mockVerifier is a test double for middleware.TokenVerifier.
type mockVerifier struct {
	verify func(token string) (uuid.UUID, error)
}

func (m *mockVerifier) VerifyToken(token string) (uuid.UUID, error) {
	return m.verify(token)
}

var _ middleware.TokenVerifier = (*mockVerifier)(nil)

func TestAuthHandler_ValidToken_InjectsUserID(t *testing.T) {
	want := uuid.New()
	verifier := &mockVerifier{verify: func(token string) (uuid.UUID, error) {
		require.Equal(t, "good-token", token)
		return want, nil
	}}

	var got uuid.UUID
	h := middleware.NewAuthHandler(verifier)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := middleware.UserID(r.Context())
			require.True(t, ok)
			got = id
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, got)
}

func TestAuthHandler_MissingHeader_Returns401(t *testing.T) {
	verifier := &mockVerifier{verify: func(string) (uuid.UUID, error) {
		t.Error("VerifyToken should not be called without a header")
		return uuid.Nil, nil
	}}
	h := middleware.NewAuthHandler(verifier)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAuthHandler_BadToken_Returns401(t *testing.T) {
	verifier := &mockVerifier{verify: func(string) (uuid.UUID, error) {
		return uuid.Nil, errors.New("bad signature")
	}}
	h := middleware.NewAuthHandler(verifier)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserID_AbsentFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.UserID(req.Context())
	assert.False(t, ok)
}
