package api

import (
	"github.com/gin-gonic/gin"
	"github.com/tadeyemo32/lpr-backend/config"
)

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(cfg *config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), Recovery(), CORS(cfg.CORSOrigin))
	SetupRoutes(r, h)
	return r
}

func SetupRoutes(r *gin.Engine, h *Handler) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", healthCheck)
		apiGroup.GET("/keys", h.getKeys)
		apiGroup.GET("/model", h.getModel)

		apiGroup.POST("/company/resolve", h.resolveCompany)
		apiGroup.POST("/people/find", h.findPeople)
		apiGroup.POST("/profiles/synthesize", h.synthesizeProfiles)

		// Route names the wizard front end has always used.
		apiGroup.POST("/identify-company", h.resolveCompany)
		apiGroup.POST("/find-lpr", h.findPeople)
		apiGroup.POST("/persona", h.synthesizeProfiles)
	}
}
