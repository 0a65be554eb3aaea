package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateContentSingleCandidate(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello there"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	text, err := client.GenerateContent(context.Background(), "v1", "gemini-2.5-flash", "hi")
	if err != nil {
		t.Fatalf("generate content failed: %v", err)
	}
	if text != "hello there" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotPath != "/v1/models/gemini-2.5-flash:generateContent" {
		t.Fatalf("unexpected request path: %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("unexpected key param: %q", gotKey)
	}
}

func TestGenerateContentJoinsMultipleParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"first"},{"text":"  "},{"text":"second"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	text, err := client.GenerateContent(context.Background(), "v1beta", "gemini-1.5-pro", "hi")
	if err != nil {
		t.Fatalf("generate content failed: %v", err)
	}
	if text != "first\nsecond" {
		t.Fatalf("unexpected joined text: %q", text)
	}
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.GenerateContent(context.Background(), "v1", "gemini-2.5-flash", "hi")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("want ErrEmptyResponse, got: %v", err)
	}
}

func TestGenerateContentUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.GenerateContent(context.Background(), "v1", "gemini-2.5-flash", "hi")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("want ErrRequestFailed, got: %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error should carry upstream message: %v", err)
	}
	if !strings.Contains(err.Error(), "v1/gemini-2.5-flash") {
		t.Fatalf("error should carry version and model: %v", err)
	}
}

func TestGenerateContentMissingAPIKey(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.GenerateContent(context.Background(), "v1", "gemini-2.5-flash", "hi")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("want ErrMissingAPIKey, got: %v", err)
	}
}

func TestListModelsFiltersGenerateContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("unexpected request path: %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models":[
			{"name":"models/gemini-2.5-flash","supportedGenerationMethods":["generateContent","countTokens"]},
			{"name":"models/embedding-001","supportedGenerationMethods":["embedContent"]},
			{"name":"models/gemini-1.5-pro","supportedGenerationMethods":["generateContent"]}
		]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("list models failed: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("unexpected model count: %v", models)
	}
	if models[0] != "gemini-2.5-flash" || models[1] != "gemini-1.5-pro" {
		t.Fatalf("unexpected models: %v", models)
	}
}

func TestListModelsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad-key", BaseURL: server.URL})
	_, err := client.ListModels(context.Background())
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("want ErrRequestFailed, got: %v", err)
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("error should carry upstream message: %v", err)
	}
}
