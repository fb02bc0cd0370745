// Package git implements the checkout builtin on top of go-git.
package git

import (
	"context"
	"errors"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceFetcher = (*Fetcher)(nil)

// Fetcher implements ports.SourceFetcher using go-git.
type Fetcher struct {
	logger ports.Logger
}

// NewFetcher creates a new Fetcher.
func NewFetcher(logger ports.Logger) *Fetcher {
	return &Fetcher{logger: logger}
}

// Checkout makes the requested repository state available at dest.
// With no repository URL it verifies dest is already inside a repository,
// the common case when the runner is started in a working copy. With a URL
// it clones on first use and fetches afterwards, then resets the worktree
// to the requested ref.
func (f *Fetcher) Checkout(ctx context.Context, spec domain.CheckoutSpec, dest string) error {
	if spec.Repository == "" {
		return f.checkoutLocal(spec, dest)
	}
	return f.checkoutRemote(ctx, spec, dest)
}

func (f *Fetcher) checkoutLocal(spec domain.CheckoutSpec, dest string) error {
	repo, err := gogit.PlainOpenWithOptions(dest, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return zerr.Wrap(err, "workspace is not a git repository and no repository was given")
	}
	if spec.Ref == "" {
		return nil
	}
	return f.switchRef(repo, spec.Ref)
}

func (f *Fetcher) checkoutRemote(ctx context.Context, spec domain.CheckoutSpec, dest string) error {
	repo, err := gogit.PlainCloneContext(ctx, dest, false, &gogit.CloneOptions{
		URL: spec.Repository,
	})
	if errors.Is(err, gogit.ErrRepositoryAlreadyExists) {
		repo, err = gogit.PlainOpen(dest)
		if err != nil {
			return zerr.Wrap(err, "failed to open existing checkout")
		}
		if ferr := repo.FetchContext(ctx, &gogit.FetchOptions{}); ferr != nil &&
			!errors.Is(ferr, gogit.NoErrAlreadyUpToDate) {
			return zerr.Wrap(ferr, "failed to fetch repository")
		}
	} else if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clone repository"), "url", spec.Repository)
	}

	if spec.Ref == "" {
		return nil
	}
	return f.switchRef(repo, spec.Ref)
}

// switchRef force-checks-out a branch name or full commit hash.
func (f *Fetcher) switchRef(repo *gogit.Repository, ref string) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return zerr.Wrap(err, "failed to get worktree")
	}

	opts := &gogit.CheckoutOptions{Force: true}
	if plumbing.IsHash(ref) {
		opts.Hash = plumbing.NewHash(ref)
	} else {
		opts.Branch = plumbing.NewBranchReferenceName(ref)
	}

	if err := worktree.Checkout(opts); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to check out ref"), "ref", ref)
	}
	return nil
}
