package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestAdaptChi_RoutesAndGroups(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())

	r.Get("/ping", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api", func(sub Router) {
		sub.Post("/echo", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
			w.WriteHeader(stdhttp.StatusCreated)
		})
	})

	srv := httptest.NewServer(r.Mux())
	defer srv.Close()

	resp, err := stdhttp.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("GET /ping = %d, want 200", resp.StatusCode)
	}

	resp, err = stdhttp.Post(srv.URL+"/api/echo", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusCreated {
		t.Fatalf("POST /api/echo = %d, want 201", resp.StatusCode)
	}

	// unknown path 404s through the mux
	resp, err = stdhttp.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusNotFound {
		t.Fatalf("GET /nope = %d, want 404", resp.StatusCode)
	}
}
