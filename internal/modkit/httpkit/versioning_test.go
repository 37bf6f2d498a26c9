package httpkit

import (
	"net/http"
	"testing"

	phttp "conflux/internal/platform/net/http"
)

type call struct{ verb, path string }

// fakeRouter records wiring without serving anything
type fakeRouter struct {
	prefixes  []string
	useCalls  int
	lastMWLen int
	groups    int
	calls     []call
}

func (f *fakeRouter) Route(prefix string, fn func(Router)) {
	f.prefixes = append(f.prefixes, prefix)
	fn(f)
}

func (f *fakeRouter) Group(fn func(Router)) { f.groups++; fn(f) }

func (f *fakeRouter) Use(mw ...func(http.Handler) http.Handler) {
	f.useCalls++
	f.lastMWLen = len(mw)
}

func (f *fakeRouter) Handle(path string, _ http.Handler) {
	f.calls = append(f.calls, call{"HANDLE", path})
}

func (f *fakeRouter) Get(path string, _ phttp.Handler)  { f.calls = append(f.calls, call{"GET", path}) }
func (f *fakeRouter) Post(path string, _ phttp.Handler) { f.calls = append(f.calls, call{"POST", path}) }
func (f *fakeRouter) Mux() http.Handler                 { return http.NewServeMux() }

func TestMountAPI(t *testing.T) {
	pass := func(next http.Handler) http.Handler { return next }
	cases := []struct {
		name    string
		version string
		mw      []func(http.Handler) http.Handler
		prefix  string
		uses    int
	}{
		{"with middleware", "v2", []func(http.Handler) http.Handler{pass, pass}, "/api/v2", 1},
		{"leading slash trimmed", "/v3", nil, "/api/v3", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeRouter{}
			hits := 0
			MountAPI(r, tc.version, tc.mw, func(Router) { hits++ })
			if len(r.prefixes) != 1 || r.prefixes[0] != tc.prefix {
				t.Fatalf("prefixes = %v", r.prefixes)
			}
			if r.useCalls != tc.uses || r.lastMWLen != len(tc.mw) {
				t.Fatalf("use calls=%d len=%d", r.useCalls, r.lastMWLen)
			}
			if hits != 1 {
				t.Fatalf("mount hits = %d", hits)
			}
		})
	}
}

func TestMountAPIV1_Convenience(t *testing.T) {
	r := &fakeRouter{}
	MountAPIV1(r, nil, func(api Router) { api.Get("/rewards/report", nil) })
	if r.prefixes[0] != "/api/v1" || len(r.calls) != 1 || r.calls[0] != (call{"GET", "/rewards/report"}) {
		t.Fatalf("prefixes=%v calls=%v", r.prefixes, r.calls)
	}
}
