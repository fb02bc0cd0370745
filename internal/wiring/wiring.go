// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/gale/internal/adapters/cache"
	_ "go.trai.ch/gale/internal/adapters/config"
	_ "go.trai.ch/gale/internal/adapters/fs"
	_ "go.trai.ch/gale/internal/adapters/git"
	_ "go.trai.ch/gale/internal/adapters/logger"
	_ "go.trai.ch/gale/internal/adapters/shell"
	_ "go.trai.ch/gale/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/gale/internal/app"
	_ "go.trai.ch/gale/internal/engine/runner"
	_ "go.trai.ch/gale/internal/engine/trigger"
)
