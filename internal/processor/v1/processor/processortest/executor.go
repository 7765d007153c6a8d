// Package processortest provides an in-process Executor for tests.
package processortest

import (
	"context"
	"io"
	"sync"
)

// Call records one Execute invocation.
type Call struct {
	Executable string
	Args       []string
}

// Executor is a processor.Executor that records calls and answers through Fn.
type Executor struct {
	// Fn writes the fake process output. A nil Fn prints nothing and succeeds.
	Fn func(ctx context.Context, executable string, args []string, stdout, stderr io.Writer) error

	mu    sync.Mutex
	calls []Call
}

// Execute implements processor.Executor.
func (e *Executor) Execute(ctx context.Context, executable string, args []string, stdout, stderr io.Writer) error {
	e.mu.Lock()
	e.calls = append(e.calls, Call{Executable: executable, Args: append([]string(nil), args...)})
	e.mu.Unlock()

	if e.Fn == nil {
		return nil
	}
	return e.Fn(ctx, executable, args, stdout, stderr)
}

// Calls returns a copy of the recorded calls.
func (e *Executor) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// Printing returns an Executor printing out to stdout for every call.
func Printing(out string) *Executor {
	return &Executor{Fn: func(_ context.Context, _ string, _ []string, stdout, _ io.Writer) error {
		_, err := io.WriteString(stdout, out)
		return err
	}}
}
