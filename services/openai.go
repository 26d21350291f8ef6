package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
)

// ─── OpenAI Responses API ─────────────────────────────────────────────────────
// Docs: https://platform.openai.com/docs/api-reference/responses

type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type OpenAICompleter struct {
	client openai.Client
	apiKey string
	model  string
}

func NewOpenAICompleter(cfg OpenAIConfig) *OpenAICompleter {
	model := cfg.Model
	if model == "" {
		model = DefaultModel(ProviderOpenAI)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// The two-tier fallback is the only retry this service performs.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &OpenAICompleter{
		client: openai.NewClient(opts...),
		apiKey: cfg.APIKey,
		model:  model,
	}
}

// Complete sends the prompt as a single input string, attaching the
// web_search_preview tool when search is requested.
func (p *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if p.apiKey == "" {
		return "", upstreamError(ProviderOpenAI, errors.New("OPENAI_API_KEY not set"))
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(p.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.Prompt),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.Search {
		params.Tools = []responses.ToolUnionParam{
			{OfWebSearchPreview: &responses.WebSearchToolParam{Type: responses.WebSearchToolTypeWebSearchPreview}},
		}
	}

	zap.L().Debug("[OpenAI] creating response", zap.String("model", p.model), zap.Bool("search", req.Search))
	resp, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return "", upstreamError(ProviderOpenAI, err)
	}
	return strings.TrimSpace(resp.OutputText()), nil
}
