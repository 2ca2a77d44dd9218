package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIGenerate(t *testing.T) {
	var got struct {
		Model          string `json:"model"`
		ResponseFormat struct {
			Type string `json:"type"`
		} `json:"response_format"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"ideas\":[]}"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	m := NewOpenAI("test-key", "", srv.URL+"/v1", srv.Client())
	text, err := m.Generate(context.Background(), "hola")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != `{"ideas":[]}` {
		t.Errorf("unexpected text %q", text)
	}
	if got.Model != DefaultOpenAIModel {
		t.Errorf("expected default model, got %q", got.Model)
	}
	if got.ResponseFormat.Type != "json_object" {
		t.Errorf("expected JSON mode, got %q", got.ResponseFormat.Type)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "hola" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI("k", "gpt-test", srv.URL+"/v1", srv.Client()).Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "no response") {
		t.Fatalf("expected no-response error, got %v", err)
	}
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI("k", "", srv.URL+"/v1", srv.Client()).Generate(context.Background(), "p")
	if err == nil {
		t.Fatal("expected API error")
	}
}
