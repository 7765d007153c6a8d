package messenger

import (
	"testing"

	busamqp "nbgrader-validate/internal/bus/amqp"
	"nbgrader-validate/internal/bus/errors"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v2"
)

func TestCreateCommandRequiresAMQP(t *testing.T) {
	log := zerolog.Nop()
	su := syncutils.NewSyncUtils()
	cfg := &config.Config{}
	app := &cli.App{Commands: []*cli.Command{
		NewCreateCommand(&log, cfg, busamqp.NewAMQP(cfg, &log, su), su).Describe(),
	}}

	err := app.Run([]string{"nbgrader-validate", "messenger:create", "--name", "ps1.ipynb"})
	assert.ErrorIs(t, err, errors.ErrDisabled)
}

func TestCreateCommandRequiresName(t *testing.T) {
	log := zerolog.Nop()
	su := syncutils.NewSyncUtils()
	cfg := &config.Config{}
	app := &cli.App{Commands: []*cli.Command{
		NewCreateCommand(&log, cfg, busamqp.NewAMQP(cfg, &log, su), su).Describe(),
	}}

	assert.Error(t, app.Run([]string{"nbgrader-validate", "messenger:create"}))
}
