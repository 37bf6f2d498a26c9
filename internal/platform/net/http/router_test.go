package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "conflux/internal/platform/net/http"
)

func TestAdaptChi_RouteGroupUse(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	var hits []string
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			hits = append(hits, "root")
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/v1", func(v1 phttp.Router) {
		v1.Group(func(g phttp.Router) {
			g.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					hits = append(hits, "group")
					next.ServeHTTP(w, req)
				})
			})
			g.Get("/a", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
		})
		v1.Post("/b", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	})
	r.Handle("/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	cases := []struct {
		method, path string
		want         int
	}{
		{"GET", "/api/v1/a", http.StatusTeapot},
		{"POST", "/api/v1/b", http.StatusAccepted},
		{"GET", "/api/v1/b", http.StatusMethodNotAllowed},
		{"GET", "/raw", http.StatusNoContent},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s %s = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
	if len(hits) != 5 || hits[1] != "group" {
		t.Fatalf("middleware hits = %v", hits)
	}
}
