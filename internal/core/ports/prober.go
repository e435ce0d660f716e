package ports

import (
	"context"

	"go.trai.ch/sitedims/internal/core/domain"
)

// Prober determines the pixel dimensions of a fetched asset.
//
//go:generate go run go.uber.org/mock/mockgen -source=prober.go -destination=mocks/mock_prober.go -package=mocks
type Prober interface {
	Probe(ctx context.Context, asset *domain.Asset) (domain.Dimension, error)
}
