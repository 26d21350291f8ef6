package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ─── Anthropic Claude REST API ────────────────────────────────────────────────
// Docs: https://docs.anthropic.com/en/api/messages

const anthropicDefaultMaxTokens = 1024

type AnthropicConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type AnthropicCompleter struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
	Tools       []claudeTool    `json:"tools,omitempty"`
}

type claudeMessage struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

type claudeTool struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	MaxUses int    `json:"max_uses,omitempty"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewAnthropicCompleter(cfg AnthropicConfig) *AnthropicCompleter {
	model := cfg.Model
	if model == "" {
		model = DefaultModel(ProviderAnthropic)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &AnthropicCompleter{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Complete sends the prompt as one user turn. With search enabled the
// server-side web_search tool is attached; the answer then arrives as several
// text blocks interleaved with tool results, which are joined in order.
func (p *AnthropicCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if p.apiKey == "" {
		return "", upstreamError(ProviderAnthropic, errors.New("ANTHROPIC_API_KEY not set"))
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}
	payload := claudeRequest{
		Model:       p.model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		Messages:    []claudeMessage{{Role: "user", Content: req.Prompt}},
	}
	if req.Search {
		payload.Tools = []claudeTool{{Type: "web_search_20250305", Name: "web_search", MaxUses: 5}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", upstreamError(ProviderAnthropic, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", upstreamError(ProviderAnthropic, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	zap.L().Debug("[Claude] sending message", zap.String("model", p.model), zap.Bool("search", req.Search))
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", upstreamError(ProviderAnthropic, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", upstreamError(ProviderAnthropic, err)
	}
	var result claudeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", upstreamError(ProviderAnthropic, fmt.Errorf("status %d: undecodable body", resp.StatusCode))
	}
	if result.Error != nil {
		return "", upstreamError(ProviderAnthropic, fmt.Errorf("[%s] %s", result.Error.Type, result.Error.Message))
	}
	if resp.StatusCode >= 400 {
		return "", upstreamError(ProviderAnthropic, fmt.Errorf("request failed: %s", resp.Status))
	}

	var sb strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
