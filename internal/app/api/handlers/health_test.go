package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizadvisor/advisor/internal/app/service/llm"
	"github.com/bizadvisor/advisor/pkg/config"
)

func newHealthRouter(apiKey, baseURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.LLM.APIKey = apiKey
	cfg.LLM.BaseURL = baseURL
	cfg.LLM.TimeoutSec = 5
	client := llm.NewClient(cfg, zap.NewNop().Sugar())

	r := gin.New()
	RegisterHealthRoutes(r, client)
	return r
}

func TestHealth_WithKey(t *testing.T) {
	r := newHealthRouter("secret", "https://ollama.com/v1/chat/completions")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, "business-advisor-relay", got["service"])
	assert.Equal(t, true, got["hasApiKey"])
	assert.Equal(t, "https://ollama.com/v1/chat/completions", got["ollamaUrl"])
	// the key itself never appears in the body
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestHealth_WithoutKey(t *testing.T) {
	r := newHealthRouter("", "https://ollama.com/v1/chat/completions")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, false, got["hasApiKey"])
}
