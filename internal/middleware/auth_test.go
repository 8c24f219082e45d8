// CaterEase API | 2026
// auth_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caterease/api/internal/core"
)

type fakeVerifier struct {
	claims map[string]*AccessTokenClaims
}

func (f *fakeVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	claims, ok := f.claims[token]
	if !ok {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}
	return claims, nil
}

func newVerifier() *fakeVerifier {
	return &fakeVerifier{
		claims: map[string]*AccessTokenClaims{
			"user-token":    {UserID: 1, Role: "user"},
			"caterer-token": {UserID: 2, Role: "caterer"},
			"admin-token":   {UserID: 3, Role: "admin"},
		},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator(t *testing.T) {
	handler := Authenticator(newVerifier())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, int64(1), GetUserID(r.Context()))
			assert.Equal(t, "user", GetUserRole(r.Context()))
			assert.True(t, IsAuthenticated(r.Context()))
			w.WriteHeader(http.StatusOK)
		}),
	)

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer user-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "user-token"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	authenticate := Authenticator(newVerifier())

	serve := func(h http.Handler, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("caterer gate admits caterers and admins", func(t *testing.T) {
		handler := authenticate(RequireCaterer(okHandler()))

		assert.Equal(
			t,
			http.StatusOK,
			serve(handler, "caterer-token").Code,
		)
		assert.Equal(t, http.StatusOK, serve(handler, "admin-token").Code)
		assert.Equal(
			t,
			http.StatusForbidden,
			serve(handler, "user-token").Code,
		)
	})

	t.Run("admin gate admits only admins", func(t *testing.T) {
		handler := authenticate(RequireAdmin(okHandler()))

		assert.Equal(t, http.StatusOK, serve(handler, "admin-token").Code)
		assert.Equal(
			t,
			http.StatusForbidden,
			serve(handler, "caterer-token").Code,
		)
		assert.Equal(
			t,
			http.StatusForbidden,
			serve(handler, "user-token").Code,
		)
	})

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		handler := RequireAdmin(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestExtractToken(t *testing.T) {
	t.Run("malformed authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		assert.Empty(t, ExtractToken(req))
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer from-header")
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "from-cookie"})
		assert.Equal(t, "from-header", ExtractToken(req))
	})

	t.Run("case insensitive scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer lowercase")
		assert.Equal(t, "lowercase", ExtractToken(req))
	})
}

func TestOptionalAuth(t *testing.T) {
	handler := OptionalAuth(newVerifier())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "%d", GetUserID(r.Context()))
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer caterer-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Body.String())
}
