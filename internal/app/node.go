package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vcsstamp/internal/adapters/cache"     //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/adapters/git"       //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/vcsstamp/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			git.NodeID,
			fs.LocatorNodeID,
			fs.HasherNodeID,
			cache.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.ConsoleNodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			console, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, console), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	vcsFactory, err := graft.Dep[ports.VCSFactory](ctx)
	if err != nil {
		return nil, err
	}

	locator, err := graft.Dep[ports.RepositoryLocator](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.SnapshotStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	newWatcher, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, vcsFactory, locator, store, hasher, log, tracer, newWatcher), nil
}
