package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcare/mindcare-be/internal/auth"
	"github.com/mindcare/mindcare-be/internal/logging"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

type guardFixture struct {
	clock  *auth.FixedClock
	tokens *auth.TokenManager
	guard  *Guard
	mux    *http.ServeMux
	calls  int
	seen   AuthorizationContext
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	f := &guardFixture{clock: &auth.FixedClock{T: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}}
	f.tokens = auth.NewTokenManager(auth.TokenConfig{Secret: testSecret, Issuer: "test", TTL: time.Hour}, f.clock)
	f.guard = NewGuard(f.tokens, auth.NewSessionCookie(false, time.Hour), logging.Discard())
	f.mux = http.NewServeMux()
	f.mux.HandleFunc("GET /user/profile/{id}", f.guard.RequireOwner("id", func(w http.ResponseWriter, r *http.Request, authz AuthorizationContext) {
		f.calls++
		f.seen = authz
		fromCtx, ok := AuthorizationFrom(r.Context())
		require.True(t, ok)
		assert.Equal(t, authz, fromCtx)
		w.WriteHeader(http.StatusOK)
	}))
	return f
}

func (f *guardFixture) do(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestGuard_MissingCookie(t *testing.T) {
	f := newGuardFixture(t)
	rec := f.do("/user/profile/alice", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.calls)
}

func TestGuard_InvalidToken(t *testing.T) {
	f := newGuardFixture(t)
	rec := f.do("/user/profile/alice", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.calls)
}

func TestGuard_ExpiredToken(t *testing.T) {
	f := newGuardFixture(t)
	token, err := f.tokens.Issue("alice")
	require.NoError(t, err)

	f.clock.Advance(time.Hour + time.Second)
	rec := f.do("/user/profile/alice", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.calls)
}

func TestGuard_OwnerMismatch(t *testing.T) {
	f := newGuardFixture(t)
	token, err := f.tokens.Issue("alice")
	require.NoError(t, err)

	rec := f.do("/user/profile/bob", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "bob@")
	assert.Zero(t, f.calls)
}

func TestGuard_Authorized(t *testing.T) {
	f := newGuardFixture(t)
	token, err := f.tokens.Issue("alice")
	require.NoError(t, err)

	rec := f.do("/user/profile/alice", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, "alice", f.seen.SubjectID)
}

func TestAuthorizationContext_Owns(t *testing.T) {
	assert.True(t, AuthorizationContext{SubjectID: "a"}.Owns("a"))
	assert.False(t, AuthorizationContext{SubjectID: "a"}.Owns("b"))
	assert.False(t, AuthorizationContext{}.Owns(""))
}
