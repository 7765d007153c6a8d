// Package auth provides request authentication with a static server token or a signed JWT.

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"nbgrader-validate/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrMissingToken = errors.New("authentication token required")
	ErrInvalidToken = errors.New("invalid authentication token")
)

// Claims are the JWT claims accepted by Authenticator.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator checks request credentials.
type Authenticator struct {
	log       *zerolog.Logger
	token     []byte
	secret    []byte
	ttl       time.Duration
	disabled  bool
	generated bool
}

// NewAuthenticator initializes a new Authenticator. Without SERVER_TOKEN and JWT_SECRET a
// random server token is generated; only AUTH_DISABLED lets requests through unauthenticated.
func NewAuthenticator(cfg *config.Config, logger *zerolog.Logger) *Authenticator {
	logger.Debug().Msg("calling initializer of authenticator")
	a := &Authenticator{
		log:      logger,
		ttl:      cfg.Auth.JWTTTL,
		disabled: cfg.Auth.Disabled,
	}
	if cfg.Auth.Token != "" {
		a.token = []byte(cfg.Auth.Token)
	}
	if cfg.Auth.JWTSecret != "" {
		a.secret = []byte(cfg.Auth.JWTSecret)
	}
	if !a.disabled && a.token == nil && a.secret == nil {
		a.token = []byte(strings.ReplaceAll(uuid.New().String(), "-", ""))
		a.generated = true
	}
	return a
}

// Enabled reports whether requests must be authenticated. It is false only with AUTH_DISABLED.
func (a *Authenticator) Enabled() bool {
	return !a.disabled
}

// Token returns the static server token, either configured or generated.
func (a *Authenticator) Token() string {
	return string(a.token)
}

// Generated reports whether the server token was generated at startup.
func (a *Authenticator) Generated() bool {
	return a.generated
}

// Authenticate returns the authenticated user name for r.
func (a *Authenticator) Authenticate(r *http.Request) (string, error) {
	if !a.Enabled() {
		return "", nil
	}

	raw := tokenFromRequest(r)
	if raw == "" {
		return "", ErrMissingToken
	}

	if a.token != nil && subtle.ConstantTimeCompare([]byte(raw), a.token) == 1 {
		return "token", nil
	}

	if a.secret != nil {
		claims, err := a.ValidateToken(raw)
		if err == nil {
			return claims.Username, nil
		}
		a.log.Debug().Err(err).Msg("JWT validation failed")
	}

	return "", ErrInvalidToken
}

// CreateToken signs a JWT for username valid for the configured TTL.
func (a *Authenticator) CreateToken(username string, now time.Time) (string, time.Time, error) {
	if a.secret == nil {
		return "", time.Time{}, errors.New("JWT_SECRET is not set")
	}
	expiration := now.Add(a.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiration),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiration, nil
}

// ValidateToken parses and verifies a JWT. Tokens without an expiration are rejected.
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// tokenFromRequest extracts a token from `Authorization: token <t>`, `Authorization: Bearer <t>`
// or the `token` query parameter.
func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, value, found := strings.Cut(header, " ")
		if found && (strings.EqualFold(scheme, "token") || strings.EqualFold(scheme, "bearer")) {
			return strings.TrimSpace(value)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
