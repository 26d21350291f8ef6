package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerpClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "ИНН 7707083893", q.Get("q"))
		assert.Equal(t, "google", q.Get("engine"))
		assert.Equal(t, "serp-key", q.Get("api_key"))
		assert.Equal(t, "2", q.Get("num"))
		_, _ = w.Write([]byte(`{"organic_results":[
			{"title":"ПАО Сбербанк","link":"https://egrul.nalog.ru/a","snippet":"ИНН 7707083893"},
			{"title":"Rusprofile","link":"https://rusprofile.ru/b","snippet":"..."},
			{"title":"Extra","link":"https://example.com/c","snippet":"..."}
		]}`))
	}))
	defer srv.Close()

	c := NewSerpClient("serp-key", srv.URL, srv.Client())
	results, err := c.Search(context.Background(), "ИНН 7707083893", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://egrul.nalog.ru/a", results[0].Link)
}

func TestSerpClient_Errors(t *testing.T) {
	_, err := NewSerpClient("", "", nil).Search(context.Background(), "q", 3)
	require.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Invalid API key."}`))
	}))
	defer srv.Close()

	_, err = NewSerpClient("k", srv.URL, srv.Client()).Search(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key.")
}

type stubSearcher struct {
	results []SerpResult
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string, _ int) ([]SerpResult, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

func TestSerpGrounded_InjectsResults(t *testing.T) {
	inner := newFake(reply("ok"))
	searcher := &stubSearcher{results: []SerpResult{
		{Title: "EGRUL", Link: "https://egrul.nalog.ru/a", Snippet: "Генеральный директор Иван Петров", Date: "2024-01-10"},
	}}

	text, err := NewSerpGrounded(inner, searcher).Complete(context.Background(), CompletionRequest{
		Prompt:      "the prompt",
		Search:      true,
		SearchQuery: "ИНН 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, []string{"ИНН 1"}, searcher.queries)

	calls := inner.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Search)
	assert.Contains(t, calls[0].Prompt, "https://egrul.nalog.ru/a (2024-01-10)")
	assert.Contains(t, calls[0].Prompt, "Генеральный директор Иван Петров")
	assert.Contains(t, calls[0].Prompt, "\n\nthe prompt")
}

func TestSerpGrounded_PassThroughWithoutSearch(t *testing.T) {
	inner := newFake(reply("ok"))
	searcher := &stubSearcher{}

	_, err := NewSerpGrounded(inner, searcher).Complete(context.Background(), CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, searcher.queries)
	assert.Equal(t, "p", inner.Calls()[0].Prompt)
}

func TestSerpGrounded_SearchFailureDegrades(t *testing.T) {
	inner := newFake(reply("ok"))
	searcher := &stubSearcher{err: errors.New("serp down")}

	text, err := NewSerpGrounded(inner, searcher).Complete(context.Background(), CompletionRequest{
		Prompt: "p", Search: true, SearchQuery: "q",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)

	calls := inner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "p", calls[0].Prompt)
	assert.False(t, calls[0].Search)
}
