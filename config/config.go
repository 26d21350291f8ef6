package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/tadeyemo32/lpr-backend/services"
	"gopkg.in/yaml.v3"
)

// Config is everything read from the environment at startup.
type Config struct {
	Port       string
	Debug      bool
	CORSOrigin string

	Provider      string
	Model         string
	BaseURL       string
	SearchBackend string
	Temperature   float64

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
	SerpAPIKey      string

	ResolveMaxTokens int
	FindMaxTokens    int
	ProfileMaxTokens int
	PeopleMin        int
	PeopleMax        int
	DebugTruncate    int

	RegistryFile string
	Registries   []string
}

// Load reads envFile (".env" when empty; a missing file is fine) and then
// the process environment. Variables already set in the environment win
// over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(err, "load env file %s", envFile)
	}

	cfg := &Config{
		Port:       getEnv("PORT", "8765"),
		Debug:      getEnvBool("DEBUG_LOG", false),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		Provider:      strings.ToLower(getEnv("LLM_PROVIDER", services.ProviderOpenAI)),
		Model:         getEnv("LLM_MODEL", ""),
		BaseURL:       getEnv("LLM_BASE_URL", ""),
		SearchBackend: strings.ToLower(getEnv("LLM_SEARCH_BACKEND", services.SearchNative)),
		Temperature:   getEnvFloat("LLM_TEMPERATURE", 0),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		SerpAPIKey:      os.Getenv("SERPAPI_KEY"),

		ResolveMaxTokens: getEnvInt("RESOLVE_MAX_TOKENS", 700),
		FindMaxTokens:    getEnvInt("FIND_MAX_TOKENS", 600),
		ProfileMaxTokens: getEnvInt("PROFILE_MAX_TOKENS", 800),
		PeopleMin:        getEnvInt("PEOPLE_MIN", 3),
		PeopleMax:        getEnvInt("PEOPLE_MAX", 10),
		DebugTruncate:    getEnvInt("DEBUG_TRUNCATE", 4000),

		RegistryFile: getEnv("REGISTRY_FILE", ""),
		Registries:   services.DefaultRegistryDomains,
	}
	if cfg.Model == "" {
		cfg.Model = services.DefaultModel(cfg.Provider)
	}

	if cfg.RegistryFile != "" {
		regs, err := LoadRegistries(cfg.RegistryFile)
		if err != nil {
			return nil, err
		}
		cfg.Registries = regs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Provider {
	case services.ProviderOpenAI, services.ProviderAnthropic, services.ProviderGemini:
	default:
		return eris.Errorf("unknown LLM_PROVIDER %q (want openai, anthropic or gemini)", c.Provider)
	}
	switch c.SearchBackend {
	case services.SearchNative, services.SearchNone:
	case services.SearchSerpAPI:
		if c.SerpAPIKey == "" {
			return eris.New("LLM_SEARCH_BACKEND=serpapi requires SERPAPI_KEY")
		}
	default:
		return eris.Errorf("unknown LLM_SEARCH_BACKEND %q (want native, serpapi or none)", c.SearchBackend)
	}
	if c.PeopleMin < 1 {
		return eris.Errorf("PEOPLE_MIN must be at least 1, got %d", c.PeopleMin)
	}
	if c.PeopleMin > c.PeopleMax {
		return eris.Errorf("PEOPLE_MIN (%d) is greater than PEOPLE_MAX (%d)", c.PeopleMin, c.PeopleMax)
	}
	if c.ProviderKey() == "" {
		return eris.Errorf("no API key configured for provider %s", c.Provider)
	}
	return nil
}

// ProviderKey returns the API key of the selected provider.
func (c *Config) ProviderKey() string {
	switch c.Provider {
	case services.ProviderAnthropic:
		return c.AnthropicAPIKey
	case services.ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// LLM returns the upstream provider settings.
func (c *Config) LLM() services.LLMConfig {
	return services.LLMConfig{
		Provider:        c.Provider,
		Model:           c.Model,
		BaseURL:         c.BaseURL,
		SearchBackend:   c.SearchBackend,
		OpenAIAPIKey:    c.OpenAIAPIKey,
		AnthropicAPIKey: c.AnthropicAPIKey,
		GeminiAPIKey:    c.GeminiAPIKey,
		SerpAPIKey:      c.SerpAPIKey,
	}
}

func (c *Config) stage(maxTokens int) services.StageOptions {
	opts := services.StageOptions{
		Search:      c.SearchBackend != services.SearchNone,
		MaxTokens:   maxTokens,
		Temperature: c.Temperature,
	}
	if c.Debug {
		opts.DebugLimit = c.DebugTruncate
	}
	return opts
}

func (c *Config) ResolveOptions() services.StageOptions {
	return c.stage(c.ResolveMaxTokens)
}

func (c *Config) FindOptions() services.FinderOptions {
	return services.FinderOptions{
		StageOptions: c.stage(c.FindMaxTokens),
		MinPeople:    c.PeopleMin,
		MaxPeople:    c.PeopleMax,
		Registries:   c.Registries,
	}
}

func (c *Config) ProfileOptions() services.StageOptions {
	return c.stage(c.ProfileMaxTokens)
}

type registryFile struct {
	Registries []string `yaml:"registries"`
}

// LoadRegistries reads the registry allowlist from a YAML file of the form
// "registries: [domain, ...]".
func LoadRegistries(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read registry file %s", path)
	}
	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, eris.Wrapf(err, "parse registry file %s", path)
	}

	out := make([]string, 0, len(rf.Registries))
	seen := map[string]bool{}
	for _, r := range rf.Registries {
		d := services.NormalizeDomain(r)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, eris.Errorf("registry file %s lists no domains", path)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}
