package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	perr "reviewflow/internal/platform/errors"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestRespondOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(stdhttp.MethodGet, "/x", nil)

	RespondOK(rec, req, map[string]any{"hello": "world"})

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.StatusCode != stdhttp.StatusOK || env.Status != "OK" {
		t.Fatalf("envelope = %+v", env)
	}
	if env.Error != "" {
		t.Fatalf("unexpected error in success envelope: %q", env.Error)
	}
}

func TestRespondError_MapsStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(stdhttp.MethodGet, "/x", nil)

	RespondError(rec, req, perr.NotFoundf("review %s missing", "r1"))

	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("code = %v, want not found", env.Code)
	}
	if env.Error == "" {
		t.Fatalf("expected error message in envelope")
	}
}

func TestHandle_ErrorBody(t *testing.T) {
	t.Parallel()

	h := Handle(func(_ *stdhttp.Request) Response {
		return Error(perr.InvalidArgf("bad input"))
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(stdhttp.MethodPost, "/x", nil))

	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandle_NoContent(t *testing.T) {
	t.Parallel()

	h := Handle(func(_ *stdhttp.Request) Response { return NoContent() })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(stdhttp.MethodDelete, "/x", nil))

	if rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("204 should have no body, got %q", rec.Body.String())
	}
}
