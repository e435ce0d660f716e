package ports

import "go.trai.ch/sitedims/internal/core/domain"

// SourceResolver classifies raw asset references found in markup.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type SourceResolver interface {
	// Resolve never fails. Unresolvable references resolve to a content-relative path
	// and fail later when fetched.
	Resolve(raw string) domain.ResolvedTarget
}
