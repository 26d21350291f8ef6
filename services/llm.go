package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ─── Completion capability ────────────────────────────────────────────────────

// CompletionRequest is a single prompt sent upstream.
type CompletionRequest struct {
	Prompt string
	// Search enables the provider's web-search capability for this call.
	Search bool
	// SearchQuery is used by providers that ground through SerpAPI instead
	// of a native tool. Native tools ignore it.
	SearchQuery string
	MaxTokens   int
	// Temperature of 0 leaves the provider default in place.
	Temperature float64
}

// Completer returns the model's text for a prompt. Output is not assumed to
// follow any schema; callers always pass it through the extractor.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	SearchNative  = "native"
	SearchSerpAPI = "serpapi"
	SearchNone    = "none"
)

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-5-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderGemini:    "gemini-2.5-flash",
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// LLMConfig selects and configures the upstream provider.
type LLMConfig struct {
	Provider      string
	Model         string
	BaseURL       string
	SearchBackend string

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
	SerpAPIKey      string

	// HTTPClient is shared by all REST providers; nil means http.DefaultClient.
	// No timeout is imposed here: callers bound latency with ctx.
	HTTPClient *http.Client
}

// NewCompleter builds the Completer for cfg, wrapping it with SerpAPI
// grounding when that search backend is selected.
func NewCompleter(cfg LLMConfig) (Completer, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel(provider)
	}

	var c Completer
	switch provider {
	case ProviderOpenAI:
		c = NewOpenAICompleter(OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: cfg.HTTPClient,
		})
	case ProviderAnthropic:
		c = NewAnthropicCompleter(AnthropicConfig{
			APIKey:     cfg.AnthropicAPIKey,
			Model:      model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: cfg.HTTPClient,
		})
	case ProviderGemini:
		c = NewGeminiCompleter(GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			Model:      model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: cfg.HTTPClient,
		})
	default:
		return nil, eris.Errorf("unsupported LLM provider %q", cfg.Provider)
	}

	switch cfg.SearchBackend {
	case "", SearchNative, SearchNone:
	case SearchSerpAPI:
		c = NewSerpGrounded(c, NewSerpClient(cfg.SerpAPIKey, "", cfg.HTTPClient))
	default:
		return nil, eris.Errorf("unsupported search backend %q", cfg.SearchBackend)
	}

	zap.L().Info("LLM configured",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.String("search", cfg.SearchBackend))
	return c, nil
}
