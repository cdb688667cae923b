package types

// AnalysisType selects the specialization clause appended to the system prompt.
type AnalysisType string

const (
	AnalysisTypeBusiness   AnalysisType = "business"
	AnalysisTypeMarket     AnalysisType = "market"
	AnalysisTypeSWOT       AnalysisType = "swot"
	AnalysisTypeCompetitor AnalysisType = "competitor"
	AnalysisTypeRAG        AnalysisType = "rag"
)

// Language selects the response-language directive of the system prompt.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// TokenUsage mirrors the usage block of an upstream chat-completion response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
