package trigger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/gale/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/gale/internal/core/ports"
)

// NodeID is the unique identifier for the schedule watcher Graft node.
const NodeID graft.ID = "engine.trigger_watcher"

func init() {
	graft.Register(graft.Node[*Watcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Watcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWatcher(log), nil
		},
	})
}
