package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/deskpilot/internal/agent"
	"github.com/linnemanlabs/deskpilot/internal/ticket"
)

const routeResponseTokens = 10

// Router assigns a ticket to one of the configured specialist teams based on
// content alone. Single-shot and stateless: no load balancing, no capacity
// awareness.
type Router struct {
	provider Provider
	logger   log.Logger
}

// NewRouter creates a content-based ticket router.
func NewRouter(provider Provider, logger log.Logger) *Router {
	if logger == nil {
		logger = log.Nop()
	}
	return &Router{provider: provider, logger: logger}
}

// Route returns the name of the team that should handle the ticket. The
// returned name always matches a roster entry exactly; anything invalid and
// any provider failure resolves to the roster default. fellBack reports
// whether the default was used.
func (r *Router) Route(ctx context.Context, t ticket.Ticket, roster *agent.Roster) (name string, fellBack bool) {
	raw, err := r.provider.Complete(ctx, buildRoutePrompt(t, roster), routeResponseTokens)
	if err != nil {
		r.logger.Error(ctx, err, "agent routing failed", "ticket_id", t.ID)
		return roster.Default().Name, true
	}

	name = strings.TrimSpace(raw)
	if !roster.Contains(name) {
		r.logger.Warn(ctx, "unrecognized team name, using default",
			"ticket_id", t.ID,
			"raw", truncateRaw(raw),
			"default", roster.Default().Name,
		)
		return roster.Default().Name, true
	}
	return name, false
}

func buildRoutePrompt(t ticket.Ticket, roster *agent.Roster) string {
	var desc strings.Builder
	for _, a := range roster.Agents {
		fmt.Fprintf(&desc, "- %s: %s\n  Specialties: %s\n", a.Name, a.Description, strings.Join(a.Specialties, ", "))
	}

	quoted := make([]string, len(roster.Agents))
	for i, n := range roster.Names() {
		quoted[i] = fmt.Sprintf("%q", n)
	}

	return fmt.Sprintf(`Route this support ticket to the most appropriate technical team.

Ticket:
Subject: %s
Description: %s

Available teams:
%s
Based on the ticket content, which team should handle this?
Return ONLY the exact team name: %s
No explanation, just the name.`, t.Subject, t.Description, desc.String(), strings.Join(quoted, ", "))
}
