package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/deskpilot/internal/ticket"
)

const priorityResponseTokens = 10

// PriorityClassifier assigns one of the four priority levels to a ticket.
type PriorityClassifier struct {
	provider Provider
	logger   log.Logger
}

// NewPriorityClassifier creates a priority classifier.
func NewPriorityClassifier(provider Provider, logger log.Logger) *PriorityClassifier {
	if logger == nil {
		logger = log.Nop()
	}
	return &PriorityClassifier{provider: provider, logger: logger}
}

// Classify returns the priority for a ticket. It never fails: an invalid
// token defaults to P2, and a provider failure falls back to the ticket's
// externally-supplied priority when present, else P2. fellBack reports
// whether a fallback path was taken.
func (c *PriorityClassifier) Classify(ctx context.Context, t ticket.Ticket) (p Priority, fellBack bool) {
	raw, err := c.provider.Complete(ctx, buildPriorityPrompt(t), priorityResponseTokens)
	if err != nil {
		c.logger.Error(ctx, err, "priority classification failed", "ticket_id", t.ID)
		if supplied, ok := ParsePriority(t.ActualPriority); ok {
			return supplied, true
		}
		return P2, true
	}

	p, ok := ParsePriority(strings.TrimSpace(raw))
	if !ok {
		c.logger.Warn(ctx, "invalid priority token, defaulting to P2",
			"ticket_id", t.ID,
			"raw", truncateRaw(raw),
		)
		return P2, true
	}
	return p, false
}

func buildPriorityPrompt(t ticket.Ticket) string {
	return fmt.Sprintf(`Analyze this B2B SaaS support ticket and classify its priority level.

Ticket:
Subject: %s
Description: %s
Channel: %s

Priority classification criteria:

P0 (Critical) - ONLY if:
- Explicit mention of "system down", "outage", "all customers affected"
- Data loss or security breach mentioned
- Direct revenue impact stated (e.g., "cannot process payments")
- Use sparingly: ~3%% of tickets

P1 (High) - If:
- Major feature completely broken (not just slow/delayed)
- Explicit churn threat or competitor mention
- Customer states "urgent" or "blocking our business"
- Repeated critical issue (e.g., "3rd time this fails")
- Target: ~30%% of tickets

P2 (Medium) - If:
- Important functionality degraded but workaround exists
- Delays or performance issues (not complete failure)
- Configuration questions requiring expertise
- Integration issues affecting single customer
- Target: ~40%% of tickets

P3 (Low) - If:
- "How to" questions or setup guidance
- Feature requests
- Minor bugs or cosmetic issues
- General inquiries
- Documentation requests
- Target: ~25%% of tickets

IMPORTANT:
- Don't assume worst-case scenario
- "Not working" does not automatically mean P1 (could be user error = P3)
- Delays/slowness = P2, not P1
- If uncertain between two levels, choose the LOWER priority

Return ONLY: P0, P1, P2, or P3
No explanation.`, t.Subject, t.Description, t.Channel)
}

// truncateRaw bounds raw classifier output for log fields.
func truncateRaw(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
