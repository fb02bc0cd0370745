package ports

import (
	"context"

	"go.trai.ch/gale/internal/core/domain"
)

// Executor defines the interface for running a step's external command.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the step's command.
	//
	// env holds workflow- and job-level variables in "KEY=VALUE" form; the
	// executor layers them over the system environment and the step's own
	// Env on top of both. The command is opaque: the only contract is its
	// exit status, and a non-zero exit is returned as an error.
	Execute(ctx context.Context, step *domain.Step, env []string) error
}
