package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher derives cache keys from lock files.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeKey derives the cache key for a spec as
// "<prefix>-<os>-<xxhash64(lockfile)>". The lock file must exist: a cache
// without its lock file has nothing stable to key on.
func (h *Hasher) ComputeKey(spec *domain.CacheSpec, root string) (string, error) {
	lockPath := filepath.Join(root, spec.LockFile)
	sum, err := h.ComputeFileHash(lockPath)
	if err != nil {
		return "", zerr.Wrap(err, "failed to hash lock file")
	}
	return fmt.Sprintf("%s-%s-%016x", spec.KeyPrefix, runtime.GOOS, sum), nil
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return digest.Sum64(), nil
}
