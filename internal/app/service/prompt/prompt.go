// Package prompt assembles the system prompt sent alongside every relayed
// question. The output is a pure function of analysis type and language; the
// caller's raw question always travels as a separate user message.
package prompt

import "github.com/bizadvisor/advisor/pkg/types"

// BaseRules is the fixed business-rules block included verbatim in every
// system prompt.
const BaseRules = `You are a senior business consultant. Follow these rules strictly:
1. Answer only questions within the scope of business consulting. If a question is out of scope, state that it is outside your advisory scope and stop.
2. Maintain a formal, professional tone at all times.
3. Ground every recommendation in the information the client provided; do not invent figures.
4. Structure every answer using exactly these eight sections:
A. Executive Summary
B. Current Situation
C. Key Findings
D. Opportunities
E. Risks
F. Recommendations
G. Action Plan
H. Success Metrics`

const (
	directiveEnglish = "Respond in formal English suitable for a professional business report."
	directiveArabic  = "Respond in formal Modern Standard Arabic suitable for a professional business report."
)

const (
	clauseBusiness   = "Specialization: general business advisory. Weigh strategy, operations, finance and growth in balance."
	clauseMarket     = "Specialization: market analysis. Focus on market size, segmentation, demand trends, pricing dynamics and entry barriers."
	clauseSWOT       = "Specialization: SWOT analysis. Derive strengths, weaknesses, opportunities and threats explicitly from the company data provided."
	clauseCompetitor = "Specialization: competitive analysis. Compare the named competitors on positioning, pricing, strengths and exploitable gaps."
	clauseRAG        = "Specialization: document-grounded analysis. Base the answer strictly on the supplied document excerpts and cite which excerpt supports each finding."
)

// BuildSystemPrompt concatenates the base rules, one language directive and
// one specialization clause. Unknown types fall back to the business clause;
// the builder never errors.
func BuildSystemPrompt(t types.AnalysisType, lang types.Language) string {
	return BaseRules + "\n\n" + languageDirective(lang) + "\n\n" + specialization(t)
}

func languageDirective(lang types.Language) string {
	switch lang {
	case types.LanguageArabic:
		return directiveArabic
	default:
		return directiveEnglish
	}
}

func specialization(t types.AnalysisType) string {
	switch t {
	case types.AnalysisTypeMarket:
		return clauseMarket
	case types.AnalysisTypeSWOT:
		return clauseSWOT
	case types.AnalysisTypeCompetitor:
		return clauseCompetitor
	case types.AnalysisTypeRAG:
		return clauseRAG
	case types.AnalysisTypeBusiness:
		return clauseBusiness
	default:
		return clauseBusiness
	}
}
