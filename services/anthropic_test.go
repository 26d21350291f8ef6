package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicCompleter_Complete(t *testing.T) {
	var got claudeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[
			{"type":"text","text":"Searching. "},
			{"type":"server_tool_use","id":"t1","name":"web_search"},
			{"type":"web_search_tool_result","tool_use_id":"t1"},
			{"type":"text","text":"{\"people\":[]}"}
		]}`))
	}))
	defer srv.Close()

	c := NewAnthropicCompleter(AnthropicConfig{APIKey: "ak-test", BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	text, err := c.Complete(context.Background(), CompletionRequest{Prompt: "who runs it", Search: true})
	require.NoError(t, err)

	assert.Equal(t, `Searching. {"people":[]}`, text)
	assert.Equal(t, DefaultModel(ProviderAnthropic), got.Model)
	assert.Equal(t, anthropicDefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "who runs it", got.Messages[0].Content)
	require.Len(t, got.Tools, 1)
	assert.Equal(t, "web_search_20250305", got.Tools[0].Type)
}

func TestAnthropicCompleter_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	c := NewAnthropicCompleter(AnthropicConfig{APIKey: "bad", BaseURL: srv.URL, HTTPClient: srv.Client()})
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestAnthropicCompleter_BadGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	c := NewAnthropicCompleter(AnthropicConfig{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
}
