// Package module holds the module contract for wiring code that must not import modkit
package module

import (
	phttp "conflux/internal/platform/net/http"
)

// Module mirrors modkit.Module
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
