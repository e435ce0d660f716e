// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sitedims/internal/adapters/config"
	_ "go.trai.ch/sitedims/internal/adapters/fetch"
	_ "go.trai.ch/sitedims/internal/adapters/fs"
	_ "go.trai.ch/sitedims/internal/adapters/logger"
	_ "go.trai.ch/sitedims/internal/adapters/shell"
	_ "go.trai.ch/sitedims/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/sitedims/internal/app"
)
