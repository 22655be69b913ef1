package conversation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

func TestProcessMessageEndpoint(t *testing.T) {
	engine := testEngine(t, EngineConfig{})
	handler := NewHandler(engine, logging.New("error"))

	body := `{"sessionId":"s1","message":"Can you tell me about test drives?","customerInfo":{"dealerId":"d1"}}`
	req := httptest.NewRequest(http.MethodPost, "/conversations/process", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ProcessMessage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var result Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !result.Success {
		t.Error("expected a successful result")
	}
	if result.CrewType != CrewRuleBased {
		t.Errorf("crew type = %q, want %q", result.CrewType, CrewRuleBased)
	}
	if !result.ShouldHandoff {
		t.Error("test drive request should trigger handoff")
	}
}

func TestProcessMessageEndpointBadJSON(t *testing.T) {
	engine := testEngine(t, EngineConfig{})
	handler := NewHandler(engine, logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/conversations/process", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.ProcessMessage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProcessMessageEndpointEmptyMessage(t *testing.T) {
	engine := testEngine(t, EngineConfig{})
	handler := NewHandler(engine, logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/conversations/process", strings.NewReader(`{"sessionId":"s1","message":""}`))
	rec := httptest.NewRecorder()

	handler.ProcessMessage(rec, req)

	// Malformed input degrades to the apology result, not an HTTP error.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if result.Success {
		t.Error("empty message must produce the failure result")
	}
}
