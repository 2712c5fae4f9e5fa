package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/linnemanlabs/deskpilot/internal/agent"
	"github.com/linnemanlabs/deskpilot/internal/ticket"
)

// mockProvider returns preconfigured responses in sequence. A nil error with
// an empty responses slice falls back to returning the last response.
type mockProvider struct {
	responses []string
	errs      []error
	callIdx   int
	prompts   []string
}

var errProviderDown = errors.New("provider unavailable")

func (m *mockProvider) Complete(_ context.Context, prompt string, _ int) (string, error) {
	idx := m.callIdx
	m.callIdx++
	m.prompts = append(m.prompts, prompt)

	if idx < len(m.errs) && m.errs[idx] != nil {
		return "", m.errs[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}
	if len(m.responses) > 0 {
		return m.responses[len(m.responses)-1], nil
	}
	return "", errProviderDown
}

func testRoster(t *testing.T) *agent.Roster {
	t.Helper()
	return &agent.Roster{Agents: []agent.Agent{
		{
			Name:        "Integrations & API Team",
			Description: "Handles API, webhook and integration issues",
			Specialties: []string{"api", "webhooks", "oauth"},
		},
		{
			Name:        "Data & Analytics Team",
			Description: "Handles reporting and data pipeline issues",
			Specialties: []string{"reports", "exports"},
		},
		{
			Name:        "Compliance & Operations Team",
			Description: "Handles billing, security and compliance",
			Specialties: []string{"billing", "gdpr"},
		},
	}}
}

func testTicket() ticket.Ticket {
	return ticket.Ticket{
		ID:           "TCK-001",
		CustomerName: "Acme Corp",
		Subject:      "Webhook deliveries failing",
		Description:  "Our webhook endpoint stopped receiving events yesterday.",
		Channel:      "email",
		MRR:          5000,
		Timestamp:    "2025-01-06T09:12:00Z",
	}
}
