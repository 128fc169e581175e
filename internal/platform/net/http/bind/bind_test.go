package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "reviewflow/internal/platform/errors"
)

type createReq struct {
	Name  string `json:"name" validate:"required,min=2"`
	Count int    `json:"count" validate:"min=0"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
}

func TestParseJSON_OK(t *testing.T) {
	got, err := ParseJSON[createReq](post(`{"name":"abc","count":3}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got.Name != "abc" || got.Count != 3 {
		t.Fatalf("parsed = %+v", got)
	}
}

func TestParseJSON_EmptyBody(t *testing.T) {
	_, err := ParseJSON[createReq](post(""))
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("expected json error for empty body, got %v", err)
	}
}

func TestParseJSON_UnknownField(t *testing.T) {
	_, err := ParseJSON[createReq](post(`{"name":"abc","bogus":1}`))
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("expected json error for unknown field, got %v", err)
	}
}

func TestParseJSON_TrailingData(t *testing.T) {
	_, err := ParseJSON[createReq](post(`{"name":"abc"}{"name":"def"}`))
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("expected json error for trailing data, got %v", err)
	}
}

func TestParseJSON_ValidationUsesJSONTag(t *testing.T) {
	_, err := ParseJSON[createReq](post(`{"name":"a"}`))
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// translated message names the json tag, not the Go field
	if !strings.Contains(err.Error(), "name") {
		t.Fatalf("message should reference json field name: %v", err)
	}
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(createReq{Name: "ok", Count: 1}); err != nil {
		t.Fatalf("Struct: %v", err)
	}
	if err := Struct(createReq{Name: "", Count: 1}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
