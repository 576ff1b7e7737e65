package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mindcare/mindcare-be/internal/apperr"
	"github.com/mindcare/mindcare-be/internal/auth"
	"github.com/mindcare/mindcare-be/internal/http/respond"
)

// AuthorizationContext is the verified identity of the caller.
type AuthorizationContext struct {
	SubjectID string
}

// Owns reports whether the caller is the owner identified by ownerID.
func (a AuthorizationContext) Owns(ownerID string) bool {
	return a.SubjectID != "" && a.SubjectID == ownerID
}

// ProtectedFunc is a handler that runs only after authentication.
type ProtectedFunc func(w http.ResponseWriter, r *http.Request, authz AuthorizationContext)

type authzKey struct{}

// WithAuthorization stores authz on ctx.
func WithAuthorization(ctx context.Context, authz AuthorizationContext) context.Context {
	return context.WithValue(ctx, authzKey{}, authz)
}

// AuthorizationFrom returns the AuthorizationContext attached by the Guard.
func AuthorizationFrom(ctx context.Context) (AuthorizationContext, bool) {
	authz, ok := ctx.Value(authzKey{}).(AuthorizationContext)
	return authz, ok
}

// Guard authenticates requests from the session cookie and enforces ownership.
type Guard struct {
	tokens *auth.TokenManager
	cookie auth.SessionCookie
	log    *slog.Logger
}

// NewGuard wires the token verifier and cookie transport.
func NewGuard(tokens *auth.TokenManager, cookie auth.SessionCookie, log *slog.Logger) *Guard {
	return &Guard{tokens: tokens, cookie: cookie, log: log}
}

// Authenticate verifies the session cookie on r.
func (g *Guard) Authenticate(r *http.Request) (AuthorizationContext, error) {
	token, err := g.cookie.Read(r)
	if err != nil {
		return AuthorizationContext{}, apperr.Unauthenticated("Authentication required", err)
	}
	claims, err := g.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return AuthorizationContext{}, apperr.Unauthenticated("Session expired, please log in again", err)
		}
		return AuthorizationContext{}, apperr.Unauthenticated("Invalid or expired token", err)
	}
	return AuthorizationContext{SubjectID: claims.SubjectID}, nil
}

// Protect requires a valid session before calling next.
func (g *Guard) Protect(next ProtectedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authz, err := g.Authenticate(r)
		if err != nil {
			g.log.WarnContext(r.Context(), "authentication failed", "path", r.URL.Path, "error", err)
			respond.Fail(w, r, g.log, err)
			return
		}
		next(w, r.WithContext(WithAuthorization(r.Context(), authz)), authz)
	}
}

// RequireOwner requires a valid session whose subject equals the path value
// named param before calling next.
func (g *Guard) RequireOwner(param string, next ProtectedFunc) http.HandlerFunc {
	return g.Protect(func(w http.ResponseWriter, r *http.Request, authz AuthorizationContext) {
		if !authz.Owns(r.PathValue(param)) {
			g.log.WarnContext(r.Context(), "ownership check failed",
				"path", r.URL.Path,
				"subject_id", authz.SubjectID,
			)
			respond.Fail(w, r, g.log, apperr.Forbidden("Access denied"))
			return
		}
		next(w, r, authz)
	})
}
