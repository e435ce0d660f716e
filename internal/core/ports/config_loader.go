package ports

import "go.trai.ch/sitedims/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the project rooted at cwd.
	// An empty file selects sitedims.yaml in cwd; a missing default file yields the defaults.
	Load(cwd, file string) (domain.Config, error)
}
