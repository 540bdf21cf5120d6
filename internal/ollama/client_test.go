package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmcleish/jirareport/internal/ticket"
)

func TestAnalyze(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "Ship AB-1 first."})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithModel("test-model"))

	sample := []ticket.Ticket{{Key: "AB-1", Summary: "Fix login", Priority: "Highest"}}
	got, err := client.Analyze(context.Background(), "REPORT BODY", sample)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got != "Ship AB-1 first." {
		t.Errorf("analysis = %q", got)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("streaming must be disabled")
	}
	if !strings.Contains(gotReq.Prompt, "REPORT BODY") {
		t.Error("prompt should embed the report text")
	}
	if !strings.Contains(gotReq.Prompt, `"AB-1"`) {
		t.Error("prompt should embed the raw ticket sample")
	}
}

func TestAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.Analyze(context.Background(), "r", nil); err == nil {
		t.Fatal("expected error on 404 response")
	}
}

func TestAnalyzeEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "  "})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.Analyze(context.Background(), "r", nil); err == nil {
		t.Fatal("blank analysis should be an error")
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"models": []}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	srv.Close()
	if err := client.Ping(context.Background()); err == nil {
		t.Error("Ping should fail once the server is down")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient()
	if c.BaseURL() != "http://localhost:11434" {
		t.Errorf("default base url = %q", c.BaseURL())
	}
	if c.Model() != "gemma3:1b" {
		t.Errorf("default model = %q", c.Model())
	}

	c = NewClient(WithBaseURL("http://model-host:11434/"), WithModel("llama3.2:1b"))
	if c.BaseURL() != "http://model-host:11434" {
		t.Errorf("trailing slash should be trimmed, got %q", c.BaseURL())
	}
	if c.Model() != "llama3.2:1b" {
		t.Errorf("model = %q", c.Model())
	}
}
