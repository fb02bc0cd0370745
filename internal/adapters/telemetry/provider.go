package telemetry

import (
	"os"

	"github.com/mattn/go-isatty"
	progrockadapter "go.trai.ch/gale/internal/adapters/telemetry/progrock"
	"go.trai.ch/gale/internal/core/ports"
)

// PlainEnv disables the progress display when set to any non-empty value.
const PlainEnv = "GALE_PLAIN"

// New selects the telemetry implementation for the current environment.
// Interactive terminals get the progrock progress display; pipes, CI, and
// GALE_PLAIN fall back to the no-op recorder so output flows through the
// logger instead.
func New() ports.Telemetry {
	if os.Getenv(PlainEnv) != "" {
		return NewNoOp()
	}
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return NewNoOp()
	}
	return progrockadapter.New()
}
