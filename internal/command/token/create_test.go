package token

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"nbgrader-validate/internal/auth"
	"nbgrader-validate/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func run(t *testing.T, cfg *config.Config) (*auth.Authenticator, string, error) {
	t.Helper()
	log := zerolog.Nop()
	a := auth.NewAuthenticator(cfg, &log)
	out := &bytes.Buffer{}
	app := &cli.App{
		Writer:   out,
		Commands: []*cli.Command{NewCreateCommand(&log, a).Describe()},
	}
	err := app.Run([]string{"nbgrader-validate", "token:create", "--user", "alice"})
	return a, strings.TrimSpace(out.String()), err
}

func TestCreateCommandIssuesValidToken(t *testing.T) {
	a, token, err := run(t, &config.Config{Auth: config.Auth{JWTSecret: "secret", JWTTTL: time.Hour}})
	require.NoError(t, err)

	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestCreateCommandRequiresSecret(t *testing.T) {
	_, token, err := run(t, &config.Config{})
	assert.Error(t, err)
	assert.Empty(t, token)
}
