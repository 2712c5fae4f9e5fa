package triage

import "github.com/linnemanlabs/deskpilot/internal/ticket"

// Priority is the four-level ticket priority scale.
type Priority string

const (
	// P0 is reserved for outages, data loss and direct revenue impact.
	P0 Priority = "P0"

	// P1 covers broken major features, churn threats and blocking issues.
	P1 Priority = "P1"

	// P2 covers degraded functionality with a workaround. Safe middle
	// default whenever classification cannot be trusted.
	P2 Priority = "P2"

	// P3 covers how-to questions, feature requests and minor bugs.
	P3 Priority = "P3"
)

// ParsePriority validates a raw priority token. ok is false for anything
// outside the closed set.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case P0, P1, P2, P3:
		return Priority(s), true
	}
	return "", false
}

// Sentiment is the tone detected by the churn-risk analysis.
type Sentiment string

const (
	SentimentNeutral    Sentiment = "neutral"
	SentimentFrustrated Sentiment = "frustrated"
	SentimentAngry      Sentiment = "angry"
)

// ParseSentiment normalizes a raw sentiment token, falling back to neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(s) {
	case SentimentNeutral, SentimentFrustrated, SentimentAngry:
		return Sentiment(s)
	}
	return SentimentNeutral
}

// IntentType is the category of commercial intent detected in a ticket.
type IntentType string

const (
	IntentPricing       IntentType = "pricing_request"
	IntentUpgrade       IntentType = "upgrade"
	IntentExpansion     IntentType = "expansion"
	IntentCustomService IntentType = "custom_service"
)

// ParseIntentType validates a raw intent token. Unknown values (including
// null/empty) map to the empty IntentType.
func ParseIntentType(s string) IntentType {
	switch IntentType(s) {
	case IntentPricing, IntentUpgrade, IntentExpansion, IntentCustomService:
		return IntentType(s)
	}
	return ""
}

const (
	// HighRiskThreshold: a ticket is high churn risk iff risk_score >= 7.
	// Recomputed locally, never trusted from the classifier.
	HighRiskThreshold = 7

	// IntentThreshold: a ticket carries business intent iff confidence >= 6.
	// Recomputed locally, never trusted from the classifier.
	IntentThreshold = 6
)

// GuardianResult is the churn-risk analysis for one ticket.
type GuardianResult struct {
	RiskScore  int       `json:"risk_score"`
	IsHighRisk bool      `json:"is_high_risk"`
	Sentiment  Sentiment `json:"sentiment"`
	Evidence   string    `json:"evidence"`
	Reasoning  string    `json:"reasoning"`
	EmailSent  *bool     `json:"email_sent,omitempty"`
}

// OpportunityResult is the commercial-intent analysis for one ticket.
type OpportunityResult struct {
	HasBusinessIntent bool       `json:"has_business_intent"`
	IntentType        IntentType `json:"intent_type,omitempty"`
	Confidence        int        `json:"confidence"`
	Evidence          string     `json:"evidence"`
	Reasoning         string     `json:"reasoning"`
	EmailSent         *bool      `json:"email_sent,omitempty"`
}

// Result is the enriched triage record built per ticket. Fields are
// append-only: each stage fills its own field and later stages never
// overwrite earlier ones.
type Result struct {
	TicketID     string  `json:"ticket_id"`
	CustomerName string  `json:"customer_name"`
	Subject      string  `json:"subject"`
	Description  string  `json:"description"`
	Channel      string  `json:"channel"`
	MRR          float64 `json:"mrr"`
	Timestamp    string  `json:"timestamp"`

	AssignedPriority Priority          `json:"assigned_priority"`
	AssignedAgent    string            `json:"assigned_agent"`
	Guardian         GuardianResult    `json:"guardian"`
	Opportunity      OpportunityResult `json:"opportunity"`
	DraftResponse    string            `json:"draft_response,omitempty"`
}

// newResult seeds a Result with the immutable ticket fields.
func newResult(t ticket.Ticket) Result {
	return Result{
		TicketID:     t.ID,
		CustomerName: t.CustomerName,
		Subject:      t.Subject,
		Description:  t.Description,
		Channel:      t.Channel,
		MRR:          t.MRR,
		Timestamp:    t.Timestamp,
	}
}

// clampScore bounds a classifier-reported score into the 0..10 scale.
func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}
