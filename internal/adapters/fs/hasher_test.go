package fs_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.trai.ch/gale/internal/adapters/fs"
	"go.trai.ch/gale/internal/core/domain"
)

func TestHasher_ComputeKey(t *testing.T) {
	root := t.TempDir()
	lock := filepath.Join(root, "Cargo.lock")
	if err := os.WriteFile(lock, []byte("[[package]]\nname = \"heapless\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	h := fs.NewHasher(fs.NewWalker())
	spec := &domain.CacheSpec{KeyPrefix: "cargo", LockFile: "Cargo.lock", Paths: []string{"target"}}

	key1, err := h.ComputeKey(spec, root)
	if err != nil {
		t.Fatalf("ComputeKey failed: %v", err)
	}

	if !strings.HasPrefix(key1, "cargo-"+runtime.GOOS+"-") {
		t.Errorf("key %q should start with prefix and OS", key1)
	}

	// Same content, same key.
	key2, err := h.ComputeKey(spec, root)
	if err != nil {
		t.Fatalf("ComputeKey failed: %v", err)
	}
	if key1 != key2 {
		t.Errorf("key should be stable: %q != %q", key1, key2)
	}

	// Changing the lock file must change the key.
	if err := os.WriteFile(lock, []byte("[[package]]\nname = \"serde\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	key3, err := h.ComputeKey(spec, root)
	if err != nil {
		t.Fatalf("ComputeKey failed: %v", err)
	}
	if key3 == key1 {
		t.Error("key should change with lock file content")
	}
}

func TestHasher_ComputeKey_MissingLockfile(t *testing.T) {
	h := fs.NewHasher(fs.NewWalker())
	spec := &domain.CacheSpec{KeyPrefix: "cargo", LockFile: "Cargo.lock", Paths: []string{"target"}}

	if _, err := h.ComputeKey(spec, t.TempDir()); err == nil {
		t.Error("expected error for missing lock file")
	}
}
