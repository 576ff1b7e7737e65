package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is used when TokenConfig.TTL is not positive.
const DefaultTokenTTL = time.Hour

var (
	// ErrInvalidToken covers malformed, wrongly signed or otherwise untrusted tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken is returned for well-signed tokens past their expiry.
	ErrExpiredToken = errors.New("session token expired")
)

// TokenConfig is the process-wide signing configuration.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Claims are the verified contents of a session token.
type Claims struct {
	SubjectID string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and verifies HS256-signed session JWTs.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  Clock
	parser *jwt.Parser
}

// NewTokenManager creates a manager from cfg. A nil clock means the system clock.
func NewTokenManager(cfg TokenConfig, clock Clock) *TokenManager {
	if clock == nil {
		clock = RealClock{}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(clock.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &TokenManager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		clock:  clock,
		parser: jwt.NewParser(opts...),
	}
}

// TTL returns the configured token lifetime.
func (t *TokenManager) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for subjectID that expires TTL from now.
func (t *TokenManager) Issue(subjectID string) (string, error) {
	if subjectID == "" {
		return "", errors.New("issue token: empty subject")
	}
	now := t.clock.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    t.issuer,
		Subject:   subjectID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	tokensIssued.Inc()
	return signed, nil
}

// Verify checks signature, issuer and expiry. It returns ErrExpiredToken for expired
// tokens and ErrInvalidToken for everything else that fails.
func (t *TokenManager) Verify(tokenString string) (Claims, error) {
	var claims jwt.RegisteredClaims
	_, err := t.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			tokenVerifications.WithLabelValues("expired").Inc()
			return Claims{}, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		tokenVerifications.WithLabelValues("invalid").Inc()
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		tokenVerifications.WithLabelValues("invalid").Inc()
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	tokenVerifications.WithLabelValues("valid").Inc()
	out := Claims{SubjectID: claims.Subject, TokenID: claims.ID}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	out.ExpiresAt = claims.ExpiresAt.Time
	return out, nil
}
