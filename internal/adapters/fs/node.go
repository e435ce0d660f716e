package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sitedims/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the file walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// HasherNodeID is the unique identifier for the content hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
	// PagesNodeID is the unique identifier for the page store Graft node.
	PagesNodeID graft.ID = "adapter.fs.pages"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[ports.PageStore]{
		ID:        PagesNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID, HasherNodeID},
		Run: func(ctx context.Context) (ports.PageStore, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewPages(walker, hasher), nil
		},
	})
}
