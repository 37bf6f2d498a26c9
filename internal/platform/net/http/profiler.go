package http

import (
	stdhttp "net/http"
	"strings"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler serves pprof under prefix when enabled
// chi's profiler router expects to sit at the root, so the prefix is stripped first
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	prefix = "/" + strings.Trim(prefix, "/")
	pprof := stdhttp.StripPrefix(prefix, mw.Profiler())

	r.Get(prefix, pprof.ServeHTTP)
	r.Handle(prefix+"/*", pprof)
}
