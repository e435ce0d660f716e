// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Command describes an external process invocation.
type Command struct {
	// Name is looked up on PATH unless it contains a path separator.
	Name string
	Args []string
	// Stdin is optional.
	Stdin io.Reader
}

// CommandResult carries everything the caller may inspect after the process exited.
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner runs external processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type CommandRunner interface {
	// Run executes the command and waits for it to exit.
	//
	// A non-zero exit status is reported through CommandResult.ExitCode, not as an error.
	// An error is returned only when the process could not be started; it wraps
	// domain.ErrCommandNotFound when the executable does not exist.
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}
