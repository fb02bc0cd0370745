// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/gale/internal/core/domain"

// ConfigLoader defines the interface for loading a workflow definition.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the workflow file at the given path, validates it, and
	// returns the domain model.
	Load(path string) (*domain.Workflow, error)
}
