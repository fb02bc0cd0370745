// Package cache implements the keyed artifact cache behind `uses: cache`
// steps.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	galefs "go.trai.ch/gale/internal/adapters/fs"
	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

const (
	indexFile  = "index.json"
	objectsDir = "objects"

	// restoredCapacity bounds the per-process memo of already restored
	// keys. Watch mode can run many workflows from one process.
	restoredCapacity = 256
)

// Store implements ports.CacheStore with one directory tree per key under
// the store root and a flat JSON index, guarded by a single lock.
type Store struct {
	root   string
	walker *galefs.Walker

	mu    sync.RWMutex
	index map[string]domain.CacheEntry

	// restored remembers keys already copied into the workspace by this
	// process so parallel jobs sharing a key restore it once.
	restored *lru.Cache[string, time.Time]
}

// NewStore creates a Store rooted at the given directory, loading the
// index if one exists.
func NewStore(root string, walker *galefs.Walker) (*Store, error) {
	restored, err := lru.New[string, time.Time](restoredCapacity)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create restore memo")
	}

	s := &Store{
		root:     filepath.Clean(root),
		walker:   walker,
		index:    make(map[string]domain.CacheEntry),
		restored: restored,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(filepath.Join(s.root, indexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read cache index")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.index); err != nil {
		return zerr.Wrap(err, "failed to unmarshal cache index")
	}

	return nil
}

// save persists the index. Callers must hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal cache index")
	}

	if err := os.MkdirAll(s.root, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(filepath.Join(s.root, indexFile), data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write cache index")
	}

	return nil
}

// Restore copies the cached trees for key back into the workspace.
// It reports false without error on a cache miss.
//
// TODO: support prefix fallback restore keys ("cargo-linux-") that hit the
// newest entry sharing the prefix when the exact key misses.
func (s *Store) Restore(key string, paths []string, workspace string) (bool, error) {
	if _, ok := s.restored.Get(key); ok {
		return true, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index[key]
	if !ok {
		return false, nil
	}

	for i, rel := range paths {
		src := s.objectPath(key, i)
		if _, err := os.Stat(src); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// The entry was saved with fewer paths; a partial hit is
				// still a hit for the paths that exist.
				continue
			}
			return false, zerr.With(zerr.Wrap(err, "failed to stat cached tree"), "key", key)
		}
		if err := copyTree(src, filepath.Join(workspace, rel)); err != nil {
			return false, zerr.With(zerr.Wrap(err, "failed to restore cached tree"), "key", key)
		}
	}

	entry.LastUsedAt = time.Now()
	s.index[key] = entry
	if err := s.save(); err != nil {
		return false, err
	}

	s.restored.Add(key, entry.LastUsedAt)
	return true, nil
}

// Save captures the given workspace paths under key, replacing any
// previous entry for the same key. Declared paths that do not exist are
// skipped: a first run may legitimately not produce every cached
// directory.
func (s *Store) Save(key string, paths []string, workspace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keyDir := filepath.Join(s.root, objectsDir, key)
	if err := os.RemoveAll(keyDir); err != nil {
		return zerr.Wrap(err, "failed to drop previous cache entry")
	}

	var size int64
	var saved []string
	for i, rel := range paths {
		src := filepath.Join(workspace, rel)
		if _, err := os.Stat(src); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return zerr.With(zerr.Wrap(err, "failed to stat cache path"), "path", rel)
		}
		dst := s.objectPath(key, i)
		if err := copyTree(src, dst); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to save cache path"), "path", rel)
		}
		size += s.walker.TreeSize(dst)
		saved = append(saved, rel)
	}

	now := time.Now()
	s.index[key] = domain.CacheEntry{
		Key:        key,
		Paths:      saved,
		SizeBytes:  size,
		CreatedAt:  now,
		LastUsedAt: now,
	}

	return s.save()
}

// Entries lists all stored cache entries, newest first.
func (s *Store) Entries() []domain.CacheEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.CacheEntry, 0, len(s.index))
	for _, e := range s.index {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

// Clear removes every cached entry and the index.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.root); err != nil {
		return zerr.Wrap(err, "failed to clear cache")
	}
	s.index = make(map[string]domain.CacheEntry)
	s.restored.Purge()
	return nil
}

// objectPath returns where the i-th declared path of key is stored. Paths
// are stored by position: the key's lock-file hash already pins what they
// contain.
func (s *Store) objectPath(key string, i int) string {
	return filepath.Join(s.root, objectsDir, key, fmt.Sprintf("%d", i))
}

// copyTree copies a file or directory tree, preserving file modes.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, fi.Mode())
	})
}

func copyFile(src, dst string, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // Paths stay inside store and workspace
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode) //nolint:gosec // See above
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
