package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/gale/internal/adapters/fs"
	"go.trai.ch/gale/internal/core/ports"
)

// NodeID is the unique identifier for the cache store Graft node.
const NodeID graft.ID = "adapter.cache_store"

// DefaultRoot is where the cache lives relative to the working directory.
const DefaultRoot = ".gale/cache"

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID},
		Run: func(ctx context.Context) (ports.CacheStore, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			store, err := NewStore(DefaultRoot, walker)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
