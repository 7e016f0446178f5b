package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, http.StatusCreated, map[string]int{"id": 7})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body map[string]int
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["id"] != 7 {
		t.Fatalf("unexpected body %q (%v)", rr.Body.String(), err)
	}
}

func TestBadGateway_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	BadGateway(rr, "UPSTREAM_TRANSPORT", "status 500", "req-1")

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "UPSTREAM_TRANSPORT" || resp.Error.Message != "status 500" || resp.Error.RequestID != "req-1" {
		t.Fatalf("unexpected envelope %+v", resp.Error)
	}
	if resp.Error.Details != nil {
		t.Fatalf("expected no details, got %v", resp.Error.Details)
	}
}
