package ports

import "go.trai.ch/gale/internal/core/domain"

// Hasher defines the interface for deriving cache keys.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeKey derives the cache key for the spec: the key prefix, the
	// runner OS, and the content hash of the lock file, joined by dashes.
	ComputeKey(spec *domain.CacheSpec, root string) (string, error)
}
