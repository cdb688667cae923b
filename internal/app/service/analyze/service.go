// Package analyze ties the prompt builder and the upstream client together:
// it normalizes a relay request, builds the system/user message pair and
// returns the reshaped completion.
package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bizadvisor/advisor/internal/app/service/llm"
	"github.com/bizadvisor/advisor/internal/app/service/prompt"
	"github.com/bizadvisor/advisor/pkg/config"
	"github.com/bizadvisor/advisor/pkg/logctx"
	"github.com/bizadvisor/advisor/pkg/types"
)

// ErrValidation marks malformed request fields; surfaced to callers as 400.
var ErrValidation = errors.New("invalid analyze request")

// Request is one relay call. Zero values take the configured defaults;
// Temperature is a pointer so an explicit 0 survives defaulting.
type Request struct {
	Prompt      string             `json:"prompt"`
	Model       string             `json:"model"`
	Type        types.AnalysisType `json:"type"`
	Temperature *float64           `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
	Language    types.Language     `json:"language"`
}

// Result echoes the effective model and type next to the upstream answer.
type Result struct {
	Model   string             `json:"model"`
	Type    types.AnalysisType `json:"type"`
	Content string             `json:"content"`
	Usage   *types.TokenUsage  `json:"usage"`
}

// Upstream is the completion dependency; satisfied by *llm.Client.
type Upstream interface {
	Complete(ctx context.Context, req *llm.Request) (*llm.Result, error)
}

// Analyzer relays normalized analyze requests upstream.
type Analyzer interface {
	Analyze(ctx context.Context, req *Request) (*Result, error)
}

type Service struct {
	cfg *config.Config
	log *zap.SugaredLogger
	llm Upstream
}

func NewService(cfg *config.Config, log *zap.SugaredLogger, upstream *llm.Client) Analyzer {
	return &Service{cfg: cfg, log: log, llm: upstream}
}

func (s *Service) Analyze(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrValidation)
	}

	model := req.Model
	if model == "" {
		model = s.cfg.LLM.DefaultModel
	}
	typ := req.Type
	if typ == "" {
		typ = types.AnalysisTypeBusiness
	}
	lang := req.Language
	if lang == "" {
		lang = types.LanguageEnglish
	}
	temperature := s.cfg.LLM.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	if temperature < 0 || temperature > 2 {
		return nil, fmt.Errorf("%w: temperature must be within [0,2]", ErrValidation)
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = s.cfg.LLM.MaxTokens
	}
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w: max_tokens must be positive", ErrValidation)
	}

	res, err := s.llm.Complete(ctx, &llm.Request{
		Model:        model,
		SystemPrompt: prompt.BuildSystemPrompt(typ, lang),
		UserPrompt:   req.Prompt,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("analyze relayed",
		"model", model, "type", typ, "language", lang)

	return &Result{Model: model, Type: typ, Content: res.Content, Usage: res.Usage}, nil
}

// SWOTPrompt synthesizes the user prompt for the fixed-type SWOT wrapper.
func SWOTPrompt(companyData any) string {
	data := ""
	if companyData != nil {
		if s, ok := companyData.(string); ok {
			data = s
		} else if b, err := json.Marshal(companyData); err == nil {
			data = string(b)
		}
	}
	return "Provide a SWOT analysis for the following company.\nCompany data: " + data
}

// CompetitorsPrompt synthesizes the user prompt for the fixed-type
// competitive-analysis wrapper. The competitor list is joined with ", " when
// present, empty string otherwise.
func CompetitorsPrompt(industry string, competitors []string) string {
	joined := ""
	if len(competitors) > 0 {
		joined = strings.Join(competitors, ", ")
	}
	return fmt.Sprintf("Analyze the competitive landscape for the %s industry.\nCompetitors: %s", industry, joined)
}
