// Package dig implements logic for dependency injection using uber-go/dig.

package dig

import (
	"fmt"

	"nbgrader-validate/internal/agent/agent"
	"nbgrader-validate/internal/api/v1/rest/handlers"
	"nbgrader-validate/internal/auth"
	"nbgrader-validate/internal/bus/amqp"
	amqpHandlers "nbgrader-validate/internal/bus/handlers"
	cli2 "nbgrader-validate/internal/cli"
	"nbgrader-validate/internal/command"
	commandExtension "nbgrader-validate/internal/command/extension"
	commandHistory "nbgrader-validate/internal/command/history"
	commandHTTP "nbgrader-validate/internal/command/http"
	commandMessenger "nbgrader-validate/internal/command/messenger"
	commandNotebook "nbgrader-validate/internal/command/notebook"
	commandStorage "nbgrader-validate/internal/command/storage"
	commandToken "nbgrader-validate/internal/command/token"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/extension"
	"nbgrader-validate/internal/logger"
	"nbgrader-validate/internal/processor/v1/processor"
	"nbgrader-validate/internal/s3/s3"
	"nbgrader-validate/internal/storage/v1/psql"
	"nbgrader-validate/internal/syncutils"

	"go.uber.org/dig"
)

var definitions = []interface{}{
	handlers.NewEndpointHandlers,
	commandHTTP.NewServeCommand,
	commandNotebook.NewValidateCommand,
	commandExtension.NewLockCommand,
	commandStorage.NewMigrateCommand,
	commandStorage.NewResetCommand,
	commandHistory.NewListCommand,
	commandMessenger.NewConsumeCommand,
	commandMessenger.NewCreateCommand,
	commandToken.NewCreateCommand,
	config.NewConfig,
	logger.NewLog,
	processor.NewProcessor,
	s3.NewService,
	psql.NewStorage,
	cli2.NewApp,
	syncutils.NewSyncUtils,
	amqp.NewAMQP,
	amqpHandlers.NewAMQPHandler,
	agent.NewAgent,
	auth.NewAuthenticator,
	extension.NewExtension,
}

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	for _, definition := range definitions {
		if err := container.Provide(definition); err != nil {
			return nil, fmt.Errorf("failed to provide service: %w", err)
		}
	}

	if err := commands(container); err != nil {
		return nil, fmt.Errorf("failed to provide commands: %w", err)
	}

	return container, nil
}

func commands(container *dig.Container) error {
	if err := container.Provide(func(
		httpServeCommand *commandHTTP.ServeCommand,
		notebookValidateCommand *commandNotebook.ValidateCommand,
		extensionLockCommand *commandExtension.LockCommand,
		migrateCommand *commandStorage.MigrateCommand,
		storageResetCommand *commandStorage.ResetCommand,
		historyListCommand *commandHistory.ListCommand,
		consumeCommand *commandMessenger.ConsumeCommand,
		createCommand *commandMessenger.CreateCommand,
		tokenCreateCommand *commandToken.CreateCommand,
	) []command.Command {
		return []command.Command{
			httpServeCommand,
			notebookValidateCommand,
			extensionLockCommand,
			migrateCommand,
			storageResetCommand,
			historyListCommand,
			consumeCommand,
			createCommand,
			tokenCreateCommand,
		}
	}); err != nil {
		return fmt.Errorf("failed to define application: %w", err)
	}

	return nil
}
