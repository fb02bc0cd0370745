package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gale/internal/adapters/git"
	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// initRepo creates a repository with a single commit and returns its path.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# demo\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func newFetcher(t *testing.T) *git.Fetcher {
	t.Helper()
	ctrl := gomock.NewController(t)
	return git.NewFetcher(mocks.NewMockLogger(ctrl))
}

func TestFetcher_Checkout_Clone(t *testing.T) {
	src := initRepo(t)
	dest := t.TempDir()

	f := newFetcher(t)
	err := f.Checkout(context.Background(), domain.CheckoutSpec{Repository: src}, dest)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dest, "README.md"))
	require.NoError(t, err, "cloned worktree should contain the committed file")
}

func TestFetcher_Checkout_ExistingClone(t *testing.T) {
	src := initRepo(t)
	dest := t.TempDir()

	f := newFetcher(t)
	spec := domain.CheckoutSpec{Repository: src}
	require.NoError(t, f.Checkout(context.Background(), spec, dest))

	// Second checkout into the same destination fetches instead of cloning.
	require.NoError(t, f.Checkout(context.Background(), spec, dest))
}

func TestFetcher_Checkout_LocalWorkspace(t *testing.T) {
	repoDir := initRepo(t)

	f := newFetcher(t)
	err := f.Checkout(context.Background(), domain.CheckoutSpec{}, repoDir)
	require.NoError(t, err)
}

func TestFetcher_Checkout_NotARepository(t *testing.T) {
	f := newFetcher(t)
	err := f.Checkout(context.Background(), domain.CheckoutSpec{}, t.TempDir())
	require.Error(t, err)
}
