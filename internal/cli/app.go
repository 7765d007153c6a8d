// Package cli provides a method for new application instantiation.

package cli

import (
	"nbgrader-validate/internal/command"

	"github.com/urfave/cli/v2"
)

// NewApp initializes a new cli.App service.
func NewApp(definitions []command.Command) *cli.App {
	commands := make([]*cli.Command, 0, len(definitions))

	for _, definition := range definitions {
		commands = append(commands, definition.Describe())
	}

	return &cli.App{
		Name:     "nbgrader-validate",
		Usage:    "Validate student notebooks with nbgrader over HTTP and AMQP",
		Version:  "0.1.0",
		Commands: commands,
	}
}
