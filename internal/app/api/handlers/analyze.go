package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bizadvisor/advisor/internal/app/service/analyze"
	"github.com/bizadvisor/advisor/pkg/types"
)

// relayOK is the public relay success shape. Usage stays null when the
// upstream omits it.
type relayOK struct {
	Success bool               `json:"success"`
	Model   string             `json:"model,omitempty"`
	Type    types.AnalysisType `json:"type,omitempty"`
	Content string             `json:"content"`
	Usage   *types.TokenUsage  `json:"usage"`
}

type relayErr struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// @Summary      Analyze a business question
// @Description  Relays a prompt to the upstream LLM with the business rule set applied.
// @Tags         Analyze
// @Accept       json
// @Produce      json
// @Param        request body analyze.Request true "Analyze request"
// @Success      200  {object}  handlers.relayOK
// @Failure      400  {object}  handlers.relayErr
// @Router       /analyze [post]
func ApiAnalyze(svc analyze.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyze.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, relayErr{Error: err.Error()})
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			c.JSON(http.StatusBadRequest, relayErr{Error: "prompt is required"})
			return
		}

		res, err := svc.Analyze(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, analyze.ErrValidation) {
				c.JSON(http.StatusBadRequest, relayErr{Error: err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, relayErr{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, relayOK{
			Success: true,
			Model:   res.Model,
			Type:    res.Type,
			Content: res.Content,
			Usage:   res.Usage,
		})
	}
}

type swotRequest struct {
	CompanyData any            `json:"companyData"`
	Language    types.Language `json:"language"`
}

// @Summary      SWOT analysis
// @Description  Fixed-type wrapper: synthesizes the prompt from company data.
// @Tags         Analyze
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.relayOK
// @Router       /analyze/swot [post]
func ApiAnalyzeSWOT(svc analyze.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req swotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, relayErr{Error: err.Error()})
			return
		}

		res, err := svc.Analyze(c.Request.Context(), &analyze.Request{
			Prompt:   analyze.SWOTPrompt(req.CompanyData),
			Type:     types.AnalysisTypeSWOT,
			Language: req.Language,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, relayErr{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, relayOK{Success: true, Content: res.Content, Usage: res.Usage})
	}
}

type competitorsRequest struct {
	Industry    string         `json:"industry"`
	Competitors []string       `json:"competitors"`
	Language    types.Language `json:"language"`
}

// @Summary      Competitive analysis
// @Description  Fixed-type wrapper: synthesizes the prompt from an industry and competitor list.
// @Tags         Analyze
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.relayOK
// @Router       /analyze/competitors [post]
func ApiAnalyzeCompetitors(svc analyze.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req competitorsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, relayErr{Error: err.Error()})
			return
		}

		res, err := svc.Analyze(c.Request.Context(), &analyze.Request{
			Prompt:   analyze.CompetitorsPrompt(req.Industry, req.Competitors),
			Type:     types.AnalysisTypeCompetitor,
			Language: req.Language,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, relayErr{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, relayOK{Success: true, Content: res.Content, Usage: res.Usage})
	}
}

func RegisterAnalyzeRoutes(r gin.IRouter, svc analyze.Analyzer) {
	r.POST("/analyze", ApiAnalyze(svc))
	r.POST("/analyze/swot", ApiAnalyzeSWOT(svc))
	r.POST("/analyze/competitors", ApiAnalyzeCompetitors(svc))
}
