package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"nbgrader-validate/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthenticator(token, secret string) *Authenticator {
	log := zerolog.Nop()
	return NewAuthenticator(&config.Config{Auth: config.Auth{Token: token, JWTSecret: secret, JWTTTL: time.Hour}}, &log)
}

func TestAuthenticateGeneratesTokenWithoutCredentials(t *testing.T) {
	a := newAuthenticator("", "")
	require.True(t, a.Enabled())
	require.True(t, a.Generated())
	require.Len(t, a.Token(), 32)
	assert.NotEqual(t, a.Token(), newAuthenticator("", "").Token())

	_, err := a.Authenticate(httptest.NewRequest("POST", "/", nil))
	assert.ErrorIs(t, err, ErrMissingToken)

	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("Authorization", "token "+a.Token())
	_, err = a.Authenticate(r)
	assert.NoError(t, err)
}

func TestAuthenticateConfiguredTokenIsNotGenerated(t *testing.T) {
	a := newAuthenticator("s3cret", "")
	assert.False(t, a.Generated())
	assert.Equal(t, "s3cret", a.Token())

	assert.Empty(t, newAuthenticator("", "signing-key").Token())
}

func TestAuthenticateDisabledIsExplicit(t *testing.T) {
	log := zerolog.Nop()
	a := NewAuthenticator(&config.Config{Auth: config.Auth{Disabled: true}}, &log)
	require.False(t, a.Enabled())
	assert.False(t, a.Generated())

	_, err := a.Authenticate(httptest.NewRequest("POST", "/", nil))
	assert.NoError(t, err)
}

func TestAuthenticateStaticToken(t *testing.T) {
	a := newAuthenticator("s3cret", "")

	for _, header := range []string{"token s3cret", "Token s3cret", "Bearer s3cret"} {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("Authorization", header)
		_, err := a.Authenticate(r)
		assert.NoError(t, err, header)
	}

	r := httptest.NewRequest("POST", "/?token=s3cret", nil)
	_, err := a.Authenticate(r)
	assert.NoError(t, err)

	r = httptest.NewRequest("POST", "/", nil)
	_, err = a.Authenticate(r)
	assert.ErrorIs(t, err, ErrMissingToken)

	r = httptest.NewRequest("POST", "/", nil)
	r.Header.Set("Authorization", "token wrong")
	_, err = a.Authenticate(r)
	assert.ErrorIs(t, err, ErrInvalidToken)

	r = httptest.NewRequest("POST", "/", nil)
	r.Header.Set("Authorization", "Basic czNjcmV0")
	_, err = a.Authenticate(r)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestAuthenticateJWT(t *testing.T) {
	a := newAuthenticator("", "signing-key")

	token, expiration, err := a.CreateToken("student", time.Now())
	require.NoError(t, err)
	assert.True(t, expiration.After(time.Now()))

	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	user, err := a.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, "student", user)
}

func TestAuthenticateRejectsExpiredAndForeignJWT(t *testing.T) {
	a := newAuthenticator("", "signing-key")

	expired, _, err := a.CreateToken("student", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("Authorization", "Bearer "+expired)
	_, err = a.Authenticate(r)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, _, err := newAuthenticator("", "other-key").CreateToken("student", time.Now())
	require.NoError(t, err)
	r = httptest.NewRequest("POST", "/", nil)
	r.Header.Set("Authorization", "Bearer "+foreign)
	_, err = a.Authenticate(r)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "student"}).SignedString([]byte("signing-key"))
	require.NoError(t, err)
	_, err = a.ValidateToken(noExp)
	assert.Error(t, err)
}

func TestCreateTokenRequiresSecret(t *testing.T) {
	_, _, err := newAuthenticator("s3cret", "").CreateToken("student", time.Now())
	assert.Error(t, err)
}
