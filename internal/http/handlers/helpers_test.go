package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindcare/mindcare-be/internal/auth"
	"github.com/mindcare/mindcare-be/internal/logging"
	"github.com/mindcare/mindcare-be/internal/middleware"
	"github.com/mindcare/mindcare-be/internal/models"
	"github.com/mindcare/mindcare-be/internal/storage/memory"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

type testEnv struct {
	t      *testing.T
	store  *memory.Store
	clock  *auth.FixedClock
	tokens *auth.TokenManager
	mux    *http.ServeMux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := &auth.FixedClock{T: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	env := &testEnv{
		t:     t,
		store: memory.New(memory.WithClock(clock.Now)),
		clock: clock,
	}
	log := logging.Discard()
	env.tokens = auth.NewTokenManager(auth.TokenConfig{Secret: testSecret, Issuer: "test", TTL: time.Hour}, env.clock)
	cookie := auth.NewSessionCookie(false, time.Hour)
	guard := middleware.NewGuard(env.tokens, cookie, log)

	env.mux = http.NewServeMux()
	NewAuthHandler(env.store, auth.NewPasswordHasher(bcrypt.MinCost), env.tokens, cookie, log).Register(env.mux)
	NewUserHandler(env.store, cookie, log).Register(env.mux, guard)
	NewJournalHandler(env.store, log).Register(env.mux, guard)
	NewResourceHandler(env.store, models.MentalResource, "mentalResources", log).Register(env.mux, guard)
	NewResourceHandler(env.store, models.SupportResource, "support", log).Register(env.mux, guard)
	NewMentalCheckHandler(env.store, log).Register(env.mux, guard)
	return env
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type response struct {
	*httptest.ResponseRecorder
	env envelope
}

// sessionCookie returns the token cookie set by the response, if any.
func (r response) sessionCookie() *http.Cookie {
	for _, c := range r.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func (r response) decodeData(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.env.Data, dst))
}

func (e *testEnv) do(method, path string, body any, token string) response {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)

	out := response{ResponseRecorder: rec}
	if rec.Body.Len() > 0 {
		require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &out.env), rec.Body.String())
	}
	return out
}

// register creates a user and returns its id and session token.
func (e *testEnv) register(username, email, password string) (string, string) {
	e.t.Helper()
	res := e.do(http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(e.t, http.StatusCreated, res.Code, res.Body.String())
	cookie := res.sessionCookie()
	require.NotNil(e.t, cookie)

	var session struct {
		ID string `json:"id"`
	}
	res.decodeData(e.t, &session)
	return session.ID, cookie.Value
}
