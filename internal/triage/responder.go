package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/deskpilot/internal/kb"
	"github.com/linnemanlabs/deskpilot/internal/ticket"
)

const draftResponseTokens = 600

// Responder drafts replies for lower-priority tickets using the knowledge
// base. Higher-priority tickets are assumed to need human handling and never
// receive a draft.
type Responder struct {
	provider Provider
	kb       kb.KnowledgeBase
	logger   log.Logger
}

// NewResponder creates a draft responder over the given knowledge base.
func NewResponder(provider Provider, knowledge kb.KnowledgeBase, logger log.Logger) *Responder {
	if logger == nil {
		logger = log.Nop()
	}
	return &Responder{provider: provider, kb: knowledge, logger: logger}
}

// Generate composes a complete, addressed, signed reply for the ticket.
// Returns "" when generation fails: a missing draft is not an error, the
// ticket simply falls back to manual handling.
func (r *Responder) Generate(ctx context.Context, t ticket.Ticket, assignedAgent string) string {
	raw, err := r.provider.Complete(ctx, r.buildDraftPrompt(t, assignedAgent), draftResponseTokens)
	if err != nil {
		r.logger.Error(ctx, err, "draft generation failed", "ticket_id", t.ID)
		return ""
	}
	return strings.TrimSpace(raw)
}

func (r *Responder) buildDraftPrompt(t ticket.Ticket, assignedAgent string) string {
	return fmt.Sprintf(`Generate a professional support response for this ticket.

Ticket:
Subject: %s
Description: %s
Customer: %s
Assigned Agent: %s

%s
Instructions:
1. Address the customer by name
2. Acknowledge their issue clearly
3. If the issue matches a knowledge base article, provide a helpful answer based on that content
4. Use professional but friendly B2B tone
5. Sign off with the agent name
6. If you cannot fully resolve, explain next steps

Generate the complete email response (including greeting and signature).
Keep it concise (200-300 words).
`, t.Subject, t.Description, t.CustomerName, assignedAgent, r.kb.Summary())
}
