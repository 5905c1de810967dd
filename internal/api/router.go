package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pdfchat/internal/config"
	"pdfchat/internal/rag"
)

// NewRouter wires the HTTP surface. Routing is thin glue: every handler
// delegates straight to the pipeline service.
func NewRouter(svc *rag.Service, cfg *config.ServerConfig) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadMB << 20
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	h := NewHandler(svc)

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.POST("/session/create", h.CreateSession)
		api.POST("/upload", h.Upload)
		api.POST("/process", h.Process)
		api.POST("/chat", h.Chat)
		api.GET("/session/:id", h.GetSession)
		api.DELETE("/session/:id", h.DeleteSession)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if len(allowedOrigins) == 0 {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if originAllowed(allowedOrigins, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "3600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
