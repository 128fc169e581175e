package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "reviewflow/internal/platform/net/http"
	"reviewflow/internal/services/moderate/domain"
)

type fakeQuery struct {
	counts map[string]domain.Counts
	err    error
}

func (f fakeQuery) Get(_ context.Context, id string) (domain.Counts, error) {
	if f.err != nil {
		return domain.Counts{}, f.err
	}
	return f.counts[id], nil
}

func newServer(q domain.QueryPort) *httptest.Server {
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, Deps{Query: q})
	return httptest.NewServer(r.Mux())
}

func TestReviewer_KnownReviewer(t *testing.T) {
	t.Parallel()

	srv := newServer(fakeQuery{counts: map[string]domain.Counts{
		"U2": {Violations: 4, Banned: true},
	}})
	defer srv.Close()

	res, err := http.Get(srv.URL + "/reviewers/U2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}

	var env struct {
		Data ReviewerResponse `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.ReviewerID != "U2" || env.Data.ViolationCount != 4 || !env.Data.Banned {
		t.Fatalf("payload: %+v", env.Data)
	}
}

func TestReviewer_UnseenReviewerIsZero(t *testing.T) {
	t.Parallel()

	srv := newServer(fakeQuery{counts: map[string]domain.Counts{}})
	defer srv.Close()

	res, err := http.Get(srv.URL + "/reviewers/ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}

	var env struct {
		Data ReviewerResponse `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.ViolationCount != 0 || env.Data.Banned {
		t.Fatalf("payload: %+v", env.Data)
	}
}
