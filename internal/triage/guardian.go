package triage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linnemanlabs/go-core/log"
)

const analysisResponseTokens = 300

// Guardian scores tickets for churn risk.
type Guardian struct {
	provider Provider
	logger   log.Logger
}

// NewGuardian creates a churn-risk analyzer.
func NewGuardian(provider Provider, logger log.Logger) *Guardian {
	if logger == nil {
		logger = log.Nop()
	}
	return &Guardian{provider: provider, logger: logger}
}

// guardianResponse is the JSON shape requested from the classifier. The
// is_high_risk claim is parsed but deliberately discarded.
type guardianResponse struct {
	RiskScore  int    `json:"risk_score"`
	IsHighRisk bool   `json:"is_high_risk"`
	Sentiment  string `json:"sentiment"`
	Evidence   string `json:"evidence"`
	Reasoning  string `json:"reasoning"`
}

// Analyze scores a ticket description for churn risk. It never fails:
// unparsable output yields a neutral mid-scale fallback and a provider
// failure yields a fully-zeroed result. IsHighRisk is always recomputed as
// RiskScore >= HighRiskThreshold regardless of what the classifier claims.
// fellBack reports whether a fallback path was taken.
func (g *Guardian) Analyze(ctx context.Context, description string, mrr float64, priority Priority) (res GuardianResult, fellBack bool) {
	raw, err := g.provider.Complete(ctx, buildGuardianPrompt(description, mrr, priority), analysisResponseTokens)
	if err != nil {
		g.logger.Error(ctx, err, "churn risk analysis failed")
		return GuardianResult{
			RiskScore:  0,
			IsHighRisk: false,
			Sentiment:  SentimentNeutral,
			Reasoning:  "analysis failed",
		}, true
	}

	text := stripCodeFence(raw)

	var parsed guardianResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		g.logger.Error(ctx, err, "guardian response is not valid JSON", "raw", truncateRaw(text))
		return GuardianResult{
			RiskScore:  5,
			IsHighRisk: false,
			Sentiment:  SentimentNeutral,
			Reasoning:  fmt.Sprintf("JSON parse error: %v", err),
		}, true
	}

	score := clampScore(parsed.RiskScore)
	return GuardianResult{
		RiskScore:  score,
		IsHighRisk: score >= HighRiskThreshold,
		Sentiment:  ParseSentiment(parsed.Sentiment),
		Evidence:   parsed.Evidence,
		Reasoning:  parsed.Reasoning,
	}, false
}

func buildGuardianPrompt(description string, mrr float64, priority Priority) string {
	return fmt.Sprintf(`Analyze this B2B SaaS support ticket for customer churn risk.

Ticket content: %s

Customer context:
- Monthly Recurring Revenue (MRR): $%.0f
- Ticket Priority: %s

Detect churn risk signals:
1. Frustrated or aggressive tone
2. Mentions of competitors or alternatives
3. Repeated issues (phrases like "3rd time", "again", "still not fixed")
4. Threats to cancel or escalate
5. Language indicating lost trust ("unacceptable", "disappointed")

Respond with this EXACT JSON format:

{
    "risk_score": 7,
    "is_high_risk": true,
    "sentiment": "frustrated",
    "evidence": "third incident this month evaluating alternatives",
    "reasoning": "Customer mentions repeated issues and competitor consideration"
}

Rules:
- risk_score: number 0-10
- is_high_risk: true if risk_score >= 7, false otherwise
- sentiment: "neutral" or "frustrated" or "angry"
- evidence: ONE continuous string, NO quotes inside, max 50 chars
- reasoning: brief explanation, max 100 chars

Scoring:
- 0-3: Low risk (neutral tone, first issue)
- 4-6: Medium risk (frustrated but not threatening)
- 7-8: High risk (repeated issues, considering alternatives)
- 9-10: Critical risk (explicit churn threat)

CRITICAL: Return ONLY valid JSON. No markdown. No extra text.
`, description, mrr, priority)
}
