package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizadvisor/advisor/internal/app/service/llm"
	"github.com/bizadvisor/advisor/internal/app/service/prompt"
	"github.com/bizadvisor/advisor/pkg/config"
	"github.com/bizadvisor/advisor/pkg/types"
)

type stubUpstream struct {
	got    *llm.Request
	result *llm.Result
	err    error
	calls  int
}

func (s *stubUpstream) Complete(_ context.Context, req *llm.Request) (*llm.Result, error) {
	s.calls++
	s.got = req
	return s.result, s.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM.DefaultModel = "llama3.2:latest"
	cfg.LLM.Temperature = 0.2
	cfg.LLM.MaxTokens = 1800
	return cfg
}

func newTestService(up *stubUpstream) *Service {
	return &Service{cfg: testConfig(), log: zap.NewNop().Sugar(), llm: up}
}

func TestAnalyze_AppliesDefaults(t *testing.T) {
	up := &stubUpstream{result: &llm.Result{Content: "ok", Usage: &types.TokenUsage{TotalTokens: 9}}}
	svc := newTestService(up)

	res, err := svc.Analyze(context.Background(), &Request{Prompt: "How do I grow revenue?"})
	require.NoError(t, err)

	assert.Equal(t, "llama3.2:latest", up.got.Model)
	assert.Equal(t, 0.2, up.got.Temperature)
	assert.Equal(t, 1800, up.got.MaxTokens)
	assert.Equal(t, "How do I grow revenue?", up.got.UserPrompt)
	assert.Equal(t, prompt.BuildSystemPrompt(types.AnalysisTypeBusiness, types.LanguageEnglish), up.got.SystemPrompt)

	assert.Equal(t, "llama3.2:latest", res.Model)
	assert.Equal(t, types.AnalysisTypeBusiness, res.Type)
	assert.Equal(t, "ok", res.Content)
	require.NotNil(t, res.Usage)
	assert.Equal(t, 9, res.Usage.TotalTokens)
}

func TestAnalyze_ExplicitZeroTemperatureSurvives(t *testing.T) {
	up := &stubUpstream{result: &llm.Result{Content: "ok"}}
	svc := newTestService(up)

	zero := 0.0
	_, err := svc.Analyze(context.Background(), &Request{Prompt: "q", Temperature: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0.0, up.got.Temperature)
}

func TestAnalyze_Validation(t *testing.T) {
	badTemp := 2.5
	negTemp := -0.1

	tests := []struct {
		name string
		req  *Request
	}{
		{"nil request", nil},
		{"empty prompt", &Request{Prompt: ""}},
		{"whitespace prompt", &Request{Prompt: "   \n\t"}},
		{"temperature above range", &Request{Prompt: "q", Temperature: &badTemp}},
		{"temperature below range", &Request{Prompt: "q", Temperature: &negTemp}},
		{"negative max tokens", &Request{Prompt: "q", MaxTokens: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &stubUpstream{result: &llm.Result{Content: "ok"}}
			svc := newTestService(up)

			_, err := svc.Analyze(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, up.calls)
		})
	}
}

func TestAnalyze_TypeAndLanguageSelectPrompt(t *testing.T) {
	up := &stubUpstream{result: &llm.Result{Content: "ok"}}
	svc := newTestService(up)

	_, err := svc.Analyze(context.Background(), &Request{
		Prompt:   "حلل السوق",
		Type:     types.AnalysisTypeMarket,
		Language: types.LanguageArabic,
	})
	require.NoError(t, err)
	assert.Equal(t, prompt.BuildSystemPrompt(types.AnalysisTypeMarket, types.LanguageArabic), up.got.SystemPrompt)
}

func TestAnalyze_UpstreamErrorPassesThrough(t *testing.T) {
	upErr := errors.New("upstream down")
	up := &stubUpstream{err: upErr}
	svc := newTestService(up)

	_, err := svc.Analyze(context.Background(), &Request{Prompt: "q"})
	require.ErrorIs(t, err, upErr)
}

func TestSWOTPrompt(t *testing.T) {
	got := SWOTPrompt("family bakery, 3 staff")
	assert.Contains(t, got, "SWOT analysis")
	assert.Contains(t, got, "family bakery, 3 staff")

	structured := SWOTPrompt(map[string]any{"name": "Acme"})
	assert.Contains(t, structured, `"name":"Acme"`)

	empty := SWOTPrompt(nil)
	assert.True(t, strings.HasSuffix(empty, "Company data: "))
}

func TestCompetitorsPrompt(t *testing.T) {
	got := CompetitorsPrompt("fintech", []string{"Stripe", "Adyen"})
	assert.Contains(t, got, "fintech")
	assert.Contains(t, got, "Stripe, Adyen")

	none := CompetitorsPrompt("retail", nil)
	assert.Contains(t, none, "retail")
	assert.True(t, strings.HasSuffix(none, "Competitors: "))
}
