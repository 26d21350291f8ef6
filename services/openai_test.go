package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openAIResponseBody = `{
	"id": "resp_1",
	"object": "response",
	"created_at": 1700000000,
	"model": "gpt-5-mini",
	"status": "completed",
	"output": [
		{"type": "web_search_call", "id": "ws_1", "status": "completed"},
		{"type": "message", "id": "msg_1", "role": "assistant", "status": "completed",
		 "content": [{"type": "output_text", "text": "  {\"candidates\":[]}  ", "annotations": []}]}
	]
}`

func TestOpenAICompleter_Complete(t *testing.T) {
	var (
		got     map[string]any
		rawBody []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var err error
		rawBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(rawBody, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openAIResponseBody))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	text, err := c.Complete(context.Background(), CompletionRequest{Prompt: "find it", Search: true, MaxTokens: 700})
	require.NoError(t, err)

	assert.Equal(t, `{"candidates":[]}`, text)
	assert.Contains(t, string(rawBody), `"type":"web_search_preview"`)
	assert.Equal(t, "gpt-5-mini", got["model"])
	assert.Equal(t, "find it", got["input"])
	assert.EqualValues(t, 700, got["max_output_tokens"])
	assert.NotContains(t, got, "temperature")

	tools, ok := got["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	assert.Equal(t, "web_search_preview", tools[0].(map[string]any)["type"])
}

func TestOpenAICompleter_NoToolsWithoutSearch(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openAIResponseBody))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4.1", BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p", Temperature: 0.3})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", got["model"])
	assert.NotContains(t, got, "tools")
	assert.InDelta(t, 0.3, got["temperature"], 1e-9)
}

func TestOpenAICompleter_UpstreamError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
	assert.Equal(t, 1, calls)
}

func TestOpenAICompleter_MissingKey(t *testing.T) {
	c := NewOpenAICompleter(OpenAIConfig{})
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}
