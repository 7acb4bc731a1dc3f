// ABOUTME: Tests for the OpenAI chat client against a local fake endpoint
// ABOUTME: Covers request shape, retries and empty responses
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			},
		},
	}
}

func newTestClient(t *testing.T, url string, retries int) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClientWithConfig(&ClientConfig{
		APIKey:     "test-key",
		BaseURL:    url,
		Timeout:    2 * time.Second,
		MaxRetries: retries,
		RetryDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() error = %v", err)
	}
	return c
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(""); err == nil {
		t.Error("NewOpenAIClient(\"\") should fail")
	}
}

func TestComplete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("Logged! FOOD_UPDATE: apple:95"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 0)
	reply, err := c.Complete(context.Background(), "You are a coach.", []Turn{
		{Role: RoleUser, Content: "I ate an apple"},
		{Role: RoleAssistant, Content: "Nice"},
		{Role: RoleUser, Content: "and?"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "Logged! FOOD_UPDATE: apple:95" {
		t.Errorf("Complete() = %q", reply)
	}

	if got.Model != DefaultChatModel {
		t.Errorf("model = %q, want %q", got.Model, DefaultChatModel)
	}
	roles := []string{"system", "user", "assistant", "user"}
	if len(got.Messages) != len(roles) {
		t.Fatalf("sent %d messages, want %d", len(got.Messages), len(roles))
	}
	for i, role := range roles {
		if got.Messages[i].Role != role {
			t.Errorf("message %d role = %q, want %q", i, got.Messages[i].Role, role)
		}
	}
}

func TestCompleteRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("third time lucky"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 3)
	reply, err := c.Complete(context.Background(), "", []Turn{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "third time lucky" {
		t.Errorf("Complete() = %q", reply)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("server saw %d calls, want 3", n)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, 1)
	if _, err := c.Complete(context.Background(), "", []Turn{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Error("Complete() with no choices should fail")
	}
}
