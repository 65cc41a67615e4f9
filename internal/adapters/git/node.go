package git

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vcsstamp/internal/core/ports"
)

// NodeID is the unique identifier for the git backend factory Graft node.
const NodeID graft.ID = "adapter.vcs.git"

func init() {
	graft.Register(graft.Node[ports.VCSFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.VCSFactory, error) {
			return NewFactory(), nil
		},
	})
}
