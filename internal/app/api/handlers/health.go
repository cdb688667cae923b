package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bizadvisor/advisor/internal/app/service/llm"
)

const serviceName = "business-advisor-relay"

type healthResponse struct {
	OK        bool   `json:"ok"`
	Service   string `json:"service"`
	HasAPIKey bool   `json:"hasApiKey"`
	OllamaURL string `json:"ollamaUrl"`
}

// @Summary      Health check
// @Description  Liveness and config-presence probe; never exposes the key itself.
// @Tags         System
// @Produce      json
// @Success      200  {object}  handlers.healthResponse
// @Router       /health [get]
func Health(client *llm.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, healthResponse{
			OK:        true,
			Service:   serviceName,
			HasAPIKey: client.HasAPIKey(),
			OllamaURL: client.BaseURL(),
		})
	}
}

func RegisterHealthRoutes(r gin.IRouter, client *llm.Client) {
	r.GET("/health", Health(client))
}
