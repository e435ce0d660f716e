package fetch

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
)

// ClientNodeID is the unique identifier for the shared HTTP client Graft node.
const ClientNodeID graft.ID = "adapter.fetch.http_client"

func init() {
	graft.Register(graft.Node[*http.Client]{
		ID:        ClientNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*http.Client, error) {
			return NewClient(), nil
		},
	})
}
