package domain

import (
	"errors"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// CacheSpec describes one cache interaction declared by a `uses: cache`
// step: which lock file derives the key and which paths are cached.
type CacheSpec struct {
	// KeyPrefix is prepended to the derived key, typically the package
	// manager name ("cargo", "npm").
	KeyPrefix string
	// LockFile is the dependency lock file whose content hash keys the
	// cache, relative to the workspace root.
	LockFile string
	// Paths are the directories or files to restore and save, relative to
	// the workspace root.
	Paths []string
}

// ErrInvalidCacheSpec is returned for a cache step missing required
// parameters.
var ErrInvalidCacheSpec = errors.New("invalid cache step parameters")

// CacheSpecFromWith builds a CacheSpec from a builtin step's With map.
// The path parameter may list several entries, one per line.
func CacheSpecFromWith(with map[string]string) (*CacheSpec, error) {
	spec := &CacheSpec{
		KeyPrefix: with["key-prefix"],
		LockFile:  with["lockfile"],
	}
	for _, line := range strings.Split(with["path"], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			spec.Paths = append(spec.Paths, line)
		}
	}

	if spec.KeyPrefix == "" {
		return nil, zerr.With(ErrInvalidCacheSpec, "missing", "key-prefix")
	}
	if spec.LockFile == "" {
		return nil, zerr.With(ErrInvalidCacheSpec, "missing", "lockfile")
	}
	if len(spec.Paths) == 0 {
		return nil, zerr.With(ErrInvalidCacheSpec, "missing", "path")
	}
	return spec, nil
}

// CacheEntry is the stored metadata for one cache key.
type CacheEntry struct {
	Key        string    `json:"key,omitzero"`
	Paths      []string  `json:"paths,omitzero"`
	SizeBytes  int64     `json:"size_bytes,omitzero"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	LastUsedAt time.Time `json:"last_used_at,omitzero"`
}
