package ports

import (
	"context"

	"go.trai.ch/sitedims/internal/core/domain"
)

// Fetcher retrieves the bytes (or a probe-able location) of a resolved asset.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	Fetch(ctx context.Context, target domain.ResolvedTarget) (*domain.Asset, error)
}
