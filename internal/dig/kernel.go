// Package dig implements logic for dependency injection using uber-go/dig.

package dig

import (
	"fmt"

	"go.uber.org/dig"
)

type Kernel struct {
	Container *dig.Container
}

// Build creates the container once. Later calls are no-ops.
func (t *Kernel) Build() (err error) {
	if t.Container != nil {
		return nil
	}
	t.Container, err = buildContainer()
	if err != nil {
		err = fmt.Errorf("failed to build container: %w", err)
	}
	return
}

// Invoke builds the container if needed and calls fn with its dependencies resolved.
func (t *Kernel) Invoke(fn interface{}) error {
	if err := t.Build(); err != nil {
		return err
	}
	return t.Container.Invoke(fn)
}

func NewKernel() *Kernel {
	return &Kernel{}
}
