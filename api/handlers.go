package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tadeyemo32/lpr-backend/config"
	"github.com/tadeyemo32/lpr-backend/models"
	"github.com/tadeyemo32/lpr-backend/services"
	"go.uber.org/zap"
)

// Handler serves the three wizard steps plus a few read-only info routes.
// It holds no per-request state.
type Handler struct {
	cfg         *config.Config
	resolver    *services.Resolver
	finder      *services.Finder
	synthesizer *services.Synthesizer
}

func NewHandler(cfg *config.Config, llm services.Completer) *Handler {
	return &Handler{
		cfg:         cfg,
		resolver:    services.NewResolver(llm, cfg.ResolveOptions()),
		finder:      services.NewFinder(llm, cfg.FindOptions()),
		synthesizer: services.NewSynthesizer(llm, cfg.ProfileOptions()),
	}
}

func maskKey(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("•", len(v))
	}
	return v[:6] + "..." + v[len(v)-4:]
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getKeys(c *gin.Context) {
	keys := map[string]string{
		"OPENAI_API_KEY":    h.cfg.OpenAIAPIKey,
		"ANTHROPIC_API_KEY": h.cfg.AnthropicAPIKey,
		"GEMINI_API_KEY":    h.cfg.GeminiAPIKey,
		"SERPAPI_KEY":       h.cfg.SerpAPIKey,
	}
	result := gin.H{}
	for id, v := range keys {
		result[id] = gin.H{
			"connected": v != "",
			"masked":    maskKey(v),
		}
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getModel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"provider":      h.cfg.Provider,
		"model":         h.cfg.Model,
		"searchBackend": h.cfg.SearchBackend,
	})
}

func (h *Handler) resolveCompany(c *gin.Context) {
	var req models.ResolveCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload."})
		return
	}
	resp, err := h.resolver.Resolve(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) findPeople(c *gin.Context) {
	var req models.FindPeopleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload."})
		return
	}
	resp, err := h.finder.Find(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) synthesizeProfiles(c *gin.Context) {
	var req models.SynthesizeProfilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload."})
		return
	}
	resp, err := h.synthesizer.Synthesize(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// respondError maps service errors onto status codes: rejected input is a
// 400, anything else (upstream failures included) a 500.
func respondError(c *gin.Context, err error) {
	if services.IsInvalidInput(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	zap.L().Error("[API] request failed",
		zap.String("path", c.FullPath()),
		zap.Bool("upstream", services.IsUpstream(err)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
