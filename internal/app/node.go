package app

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitedims/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/sitedims/internal/adapters/fetch"              //nolint:depguard // Wired in app layer
	"go.trai.ch/sitedims/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/sitedims/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/sitedims/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/sitedims/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/sitedims/internal/core/ports"
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
			logger.NodeID,
			fs.PagesNodeID,
			shell.NodeID,
			fetch.ClientNodeID,
			progrock.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	pages, err := graft.Dep[ports.PageStore](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.CommandRunner](ctx)
	if err != nil {
		return nil, err
	}

	client, err := graft.Dep[*http.Client](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, pages, runner, client, telemetry), nil
}
