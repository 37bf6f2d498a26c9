package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	pnet "conflux/internal/platform/net"
	phttp "conflux/internal/platform/net/http"
)

func TestProtected_GroupsAndUsesAuth(t *testing.T) {
	r := &fakeRouter{}
	Protected(r, NewTokenPort("t", ""), func(gr Router) { gr.Post("/x", nil) })
	if r.groups != 1 || r.useCalls != 1 || len(r.calls) != 1 {
		t.Fatalf("groups=%d uses=%d calls=%v", r.groups, r.useCalls, r.calls)
	}
}

func TestProtected_EndToEnd(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pnet.Principal(r.Context())))
	}
	cases := []struct {
		name   string
		token  string
		header string
		want   int
		body   string
	}{
		{"open when no token", "", "", http.StatusOK, ""},
		{"rejects missing header", "t0k", "", http.StatusUnauthorized, ""},
		{"accepts bearer", "t0k", "Bearer t0k", http.StatusOK, "api"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := phttp.AdaptChi(chi.NewRouter())
			Protected(r, NewTokenPort(tc.token, ""), func(gr Router) { gr.Get("/secure", ok) })

			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.Mux().ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("code = %d, want %d", rec.Code, tc.want)
			}
			if tc.body != "" && rec.Body.String() != tc.body {
				t.Fatalf("body = %q", rec.Body.String())
			}
		})
	}
}
