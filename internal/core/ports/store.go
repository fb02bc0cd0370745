package ports

import "go.trai.ch/gale/internal/core/domain"

// CacheStore defines the interface for the keyed artifact cache used by
// `uses: cache` steps.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Restore copies the cached trees for key back into the workspace.
	// It reports false without error on a cache miss.
	Restore(key string, paths []string, workspace string) (bool, error)

	// Save captures the given workspace paths under key, replacing any
	// previous entry for the same key.
	Save(key string, paths []string, workspace string) error

	// Entries lists all stored cache entries, newest first.
	Entries() []domain.CacheEntry

	// Clear removes every cached entry.
	Clear() error
}
