package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const serpDefaultResults = 8

type SerpResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
}

type serpAPIResponse struct {
	OrganicResults []SerpResult `json:"organic_results"`
	Error          string       `json:"error"`
}

// SerpClient queries SerpAPI's Google engine.
type SerpClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewSerpClient(apiKey, endpoint string, client *http.Client) *SerpClient {
	if endpoint == "" {
		endpoint = "https://serpapi.com/search.json"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &SerpClient{apiKey: apiKey, endpoint: endpoint, client: client}
}

// Search returns up to maxResults organic results for query.
func (s *SerpClient) Search(ctx context.Context, query string, maxResults int) ([]SerpResult, error) {
	if s.apiKey == "" {
		return nil, errors.New("SERPAPI_KEY not set")
	}
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, eris.Wrap(err, "serp: parse endpoint")
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("engine", "google")
	q.Set("api_key", s.apiKey)
	q.Set("num", strconv.Itoa(maxResults))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serp: build request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		// The transport error carries the full URL, api_key included.
		return nil, eris.New("serp: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("serp: SerpAPI returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "serp: read body")
	}

	var data serpAPIResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, eris.Wrap(err, "serp: decode body")
	}
	if data.Error != "" {
		return nil, eris.Errorf("serp: %s", data.Error)
	}
	if len(data.OrganicResults) > maxResults {
		data.OrganicResults = data.OrganicResults[:maxResults]
	}
	return data.OrganicResults, nil
}

// Searcher is the part of SerpClient the grounding decorator needs.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SerpResult, error)
}

// SerpGrounded gives a provider without a usable native search tool a search
// capability: search results are fetched up front and pasted into the
// prompt, and the wrapped completer is called tool-free.
type SerpGrounded struct {
	next       Completer
	searcher   Searcher
	maxResults int
}

func NewSerpGrounded(next Completer, searcher Searcher) *SerpGrounded {
	return &SerpGrounded{next: next, searcher: searcher, maxResults: serpDefaultResults}
}

func (g *SerpGrounded) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !req.Search {
		return g.next.Complete(ctx, req)
	}
	req.Search = false

	query := strings.TrimSpace(req.SearchQuery)
	if query == "" {
		return g.next.Complete(ctx, req)
	}

	results, err := g.searcher.Search(ctx, query, g.maxResults)
	if err != nil {
		// Degrade to an ungrounded call; a thin answer triggers the
		// no-search fallback anyway.
		zap.L().Warn("[Serp] search failed, continuing without results", zap.Error(err))
		return g.next.Complete(ctx, req)
	}
	zap.L().Debug("[Serp] grounding prompt", zap.String("query", query), zap.Int("results", len(results)))

	req.Prompt = formatSerpResults(results) + "\n\n" + req.Prompt
	return g.next.Complete(ctx, req)
}

func formatSerpResults(results []SerpResult) string {
	if len(results) == 0 {
		return "Web search results: none."
	}
	var sb strings.Builder
	sb.WriteString("Web search results (use only these as web sources):\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s — %s", i+1, strings.TrimSpace(r.Title), strings.TrimSpace(r.Link))
		if r.Date != "" {
			fmt.Fprintf(&sb, " (%s)", r.Date)
		}
		if snippet := strings.TrimSpace(r.Snippet); snippet != "" {
			sb.WriteString("\n   ")
			sb.WriteString(snippet)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
