package modkit

import (
	phttp "conflux/internal/platform/net/http"
)

// Module is an API module: it mounts routes and exposes ports for cross wiring
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// Builder is the constructor shape every api module follows
type Builder func(Deps, ...Option) Module
