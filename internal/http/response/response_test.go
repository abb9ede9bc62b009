package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/flags", nil)
	req.Header.Set("X-Request-Id", "req-1")

	JSON(rec, req, 200, map[string]any{"items": []string{}})

	if rec.Code != 200 {
		t.Fatalf("status %d", rec.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Meta    struct {
			RequestID string `json:"request_id"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Meta.RequestID != "req-1" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/flags", nil)

	Error(rec, req, 409, "CIRCULAR_DEPENDENCY", "Circular dependency detected: a → b → a", nil)

	if rec.Code != 409 {
		t.Fatalf("status %d", rec.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error.Code != "CIRCULAR_DEPENDENCY" {
		t.Fatalf("unexpected error envelope: %+v", body)
	}
}

func TestErrorProblemDetailsNegotiation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/v1/flags/3", nil)
	req.Header.Set("Accept", "application/problem+json")

	Error(rec, req, 409, "BLOCKED_DELETION", "Cannot delete this feature flag because other flags depend on it: a (ID: 1)", nil)

	if got := rec.Header().Get("Content-Type"); got != "application/problem+json" {
		t.Fatalf("content type %q", got)
	}
	var body struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Type != "urn:problem:flag-graph:blocked-deletion" || body.Title != "Blocked Deletion" || body.Status != 409 {
		t.Fatalf("unexpected problem details: %+v", body)
	}
}

func TestProblemJSONQualityZeroIgnored(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "application/problem+json;q=0, application/json")

	Error(rec, req, 400, "BAD_REQUEST", "nope", nil)
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected plain envelope, got %q", got)
	}
}
