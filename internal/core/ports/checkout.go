package ports

import (
	"context"

	"go.trai.ch/gale/internal/core/domain"
)

// SourceFetcher defines the interface behind the `uses: checkout` builtin.
//
//go:generate go run go.uber.org/mock/mockgen -source=checkout.go -destination=mocks/mock_checkout.go -package=mocks
type SourceFetcher interface {
	// Checkout makes the requested repository state available at dest:
	// cloning when dest holds no repository, otherwise fetching and
	// resetting the worktree to the requested ref.
	Checkout(ctx context.Context, spec domain.CheckoutSpec, dest string) error
}
