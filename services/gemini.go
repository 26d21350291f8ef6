package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// ─── Gemini REST API ──────────────────────────────────────────────────────────
// Docs: https://ai.google.dev/api/generate-content

type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type GeminiCompleter struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	Tools            []geminiTool            `json:"tools,omitempty"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewGeminiCompleter(cfg GeminiConfig) *GeminiCompleter {
	model := cfg.Model
	if model == "" {
		model = DefaultModel(ProviderGemini)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &GeminiCompleter{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Complete calls generateContent, enabling Google Search grounding when
// search is requested. The key travels in a header so it never shows up in
// logged URLs.
func (p *GeminiCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if p.apiKey == "" {
		return "", upstreamError(ProviderGemini, errors.New("GEMINI_API_KEY not set"))
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
	}
	if req.Search {
		payload.Tools = []geminiTool{{GoogleSearch: &struct{}{}}}
	}
	if req.MaxTokens > 0 || req.Temperature > 0 {
		payload.GenerationConfig = &geminiGenerationConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", upstreamError(ProviderGemini, err)
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, url.PathEscape(p.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", upstreamError(ProviderGemini, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	zap.L().Debug("[Gemini] generating content", zap.String("model", p.model), zap.Bool("search", req.Search))
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", upstreamError(ProviderGemini, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", upstreamError(ProviderGemini, err)
	}
	var result geminiResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", upstreamError(ProviderGemini, fmt.Errorf("status %d: undecodable body", resp.StatusCode))
	}
	if result.Error != nil {
		return "", upstreamError(ProviderGemini, errors.New(result.Error.Message))
	}
	if resp.StatusCode >= 400 {
		return "", upstreamError(ProviderGemini, fmt.Errorf("request failed: %s", resp.Status))
	}
	if len(result.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
