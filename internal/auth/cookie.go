package auth

import (
	"errors"
	"net/http"
	"time"
)

// CookieName is the cookie carrying the session token.
const CookieName = "token"

// ErrNoSessionCookie is returned when the request carries no usable token cookie.
var ErrNoSessionCookie = errors.New("session cookie missing")

// SessionCookie moves session tokens between client and server.
type SessionCookie struct {
	secure bool
	maxAge time.Duration
}

// NewSessionCookie configures the cookie. maxAge should match the token TTL.
func NewSessionCookie(secure bool, maxAge time.Duration) SessionCookie {
	if maxAge <= 0 {
		maxAge = DefaultTokenTTL
	}
	return SessionCookie{secure: secure, maxAge: maxAge}
}

// Set writes the token cookie.
func (c SessionCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.maxAge / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires the token cookie with the same attributes it was set with.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Read returns the token from the request cookie.
func (c SessionCookie) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSessionCookie
	}
	return cookie.Value, nil
}
