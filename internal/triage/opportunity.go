package triage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linnemanlabs/go-core/log"
)

// Opportunity detects commercial intent in tickets.
type Opportunity struct {
	provider Provider
	logger   log.Logger
}

// NewOpportunity creates a commercial-intent analyzer.
func NewOpportunity(provider Provider, logger log.Logger) *Opportunity {
	if logger == nil {
		logger = log.Nop()
	}
	return &Opportunity{provider: provider, logger: logger}
}

// opportunityResponse is the JSON shape requested from the classifier. The
// has_business_intent claim is parsed but deliberately discarded.
type opportunityResponse struct {
	HasBusinessIntent bool   `json:"has_business_intent"`
	IntentType        string `json:"intent_type"`
	Confidence        int    `json:"confidence"`
	Evidence          string `json:"evidence"`
	Reasoning         string `json:"reasoning"`
}

// Analyze scans a ticket description for revenue signals. It never fails:
// unparsable output and provider failures both yield a zero-confidence
// fallback. HasBusinessIntent is always recomputed as
// Confidence >= IntentThreshold regardless of what the classifier claims.
// fellBack reports whether a fallback path was taken.
func (o *Opportunity) Analyze(ctx context.Context, description string) (res OpportunityResult, fellBack bool) {
	raw, err := o.provider.Complete(ctx, buildOpportunityPrompt(description), analysisResponseTokens)
	if err != nil {
		o.logger.Error(ctx, err, "business intent analysis failed")
		return OpportunityResult{
			HasBusinessIntent: false,
			Confidence:        0,
			Reasoning:         "analysis failed",
		}, true
	}

	text := stripCodeFence(raw)

	var parsed opportunityResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		o.logger.Error(ctx, err, "opportunity response is not valid JSON", "raw", truncateRaw(text))
		return OpportunityResult{
			HasBusinessIntent: false,
			Confidence:        0,
			Reasoning:         fmt.Sprintf("JSON parse error: %v", err),
		}, true
	}

	confidence := clampScore(parsed.Confidence)
	return OpportunityResult{
		HasBusinessIntent: confidence >= IntentThreshold,
		IntentType:        ParseIntentType(parsed.IntentType),
		Confidence:        confidence,
		Evidence:          parsed.Evidence,
		Reasoning:         parsed.Reasoning,
	}, false
}

func buildOpportunityPrompt(description string) string {
	return fmt.Sprintf(`Analyze this B2B SaaS support ticket for commercial intent signals.

Ticket content: %s

Detect if customer is expressing interest in:
1. Pricing information (quote, devis, tarif, pricing, cost)
2. Upgrading plan/tier (upgrade, enterprise, premium, higher plan)
3. Additional capacity (more users, licenses, API calls, storage)
4. Custom/dedicated services (SLA, dedicated support, custom onboarding, white-label)

CRITICAL: Ignore technical uses of words like "quote" (e.g., "quote the error message").
Focus on genuine buying signals.

Respond with JSON:
{
    "has_business_intent": true/false,
    "intent_type": "pricing_request" | "upgrade" | "expansion" | "custom_service" | null,
    "confidence": 0-10,
    "evidence": "exact phrase showing intent",
    "reasoning": "brief explanation"
}

Examples:
- "Can we get a quote for 50 additional users?" -> has_business_intent: true, confidence: 10
- "Please quote the exact error message" -> has_business_intent: false, confidence: 0
- "Interested in enterprise plan features" -> has_business_intent: true, confidence: 8
- "How do I upgrade my account?" -> has_business_intent: true, confidence: 7

Only set has_business_intent to true if confidence >= 6

Return valid JSON only.
`, description)
}
