package runner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/gale/internal/adapters/cache"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/gale/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/gale/internal/adapters/git"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/gale/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/gale/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/gale/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/gale/internal/core/ports"
)

// NodeID is the unique identifier for the runner Graft node.
const NodeID graft.ID = "engine.runner"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			cache.NodeID,
			fs.HasherNodeID,
			git.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Runner, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.SourceFetcher](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewRunner(
				executor,
				store,
				hasher,
				fetcher,
				tel,
				log,
			), nil
		},
	})
}
