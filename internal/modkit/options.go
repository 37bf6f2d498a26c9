package modkit

import (
	"net/http"

	phttp "conflux/internal/platform/net/http"
)

// Option mutates build configuration for a module
type Option func(*Built)

// Built is the resolved module configuration handed to a constructor
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler

	// Ports carries ports owned by another module, see WithPorts
	Ports any

	Subrouter func(phttp.Router) phttp.Router
	Register  func(phttp.Router)
}

// Build applies opts over identity router hooks
func Build(opts ...Option) Built {
	b := Built{
		Subrouter: func(r phttp.Router) phttp.Router { return r },
		Register:  func(phttp.Router) {},
	}
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// WithName names the module for logs
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix mounts a module under a path prefix
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts injects ports the module consumes; the importing module owns T
func WithPorts[T any](p T) Option {
	return func(b *Built) { b.Ports = p }
}

// WithSubrouter wraps the module router before routes are registered
func WithSubrouter(fn func(phttp.Router) phttp.Router) Option {
	return func(b *Built) {
		if fn != nil {
			b.Subrouter = fn
		}
	}
}

// WithRegister adds routes after the module's own
func WithRegister(fn func(phttp.Router)) Option {
	return func(b *Built) {
		if fn != nil {
			b.Register = fn
		}
	}
}
