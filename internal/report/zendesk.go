package report

import (
	"fmt"
	"strings"

	"github.com/linnemanlabs/deskpilot/internal/triage"
)

// Zendesk custom field IDs for triage annotations.
const (
	churnRiskFieldID = 360001
	upsellFieldID    = 360002
)

// teamSlugs maps roster team names to Zendesk assignee queue slugs. Unknown
// teams land on the integrations queue, matching the routing default.
var teamSlugs = map[string]string{
	"Integrations & API Team":      "integrations-api-team",
	"Data & Analytics Team":        "data-analytics-team",
	"Compliance & Operations Team": "compliance-operations-team",
}

const defaultTeamSlug = "integrations-api-team"

// APICall is one simulated Zendesk ticket update. Nothing is sent anywhere:
// the call log documents what a production integration would execute.
type APICall struct {
	TicketID    string   `json:"ticket_id"`
	Action      string   `json:"action"`
	APIEndpoint string   `json:"api_endpoint"`
	APIPayload  Payload  `json:"api_payload"`
}

// Payload is the body of a PUT /api/v2/tickets/{id}.json request.
type Payload struct {
	Ticket TicketUpdate `json:"ticket"`
}

// TicketUpdate carries the status, assignment and triage annotations for one
// ticket.
type TicketUpdate struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Priority     string        `json:"priority"`
	Assignee     string        `json:"assignee"`
	Tags         []string      `json:"tags"`
	CustomFields []CustomField `json:"custom_fields"`
	Comment      *Comment      `json:"comment,omitempty"`
}

// CustomField is a Zendesk custom field assignment. Value is an int for the
// churn risk score and a string for the intent type.
type CustomField struct {
	ID    int `json:"id"`
	Value any `json:"value"`
}

// Comment is a public reply attached when a ticket is auto-resolved.
type Comment struct {
	Body   string `json:"body"`
	Public bool   `json:"public"`
}

// BuildAPICalls derives the simulated Zendesk call log from the triage
// results. Tickets with a draft response are solved with the draft as a
// public comment; everything else is assigned to its team queue.
func BuildAPICalls(results []*triage.Result) []APICall {
	calls := make([]APICall, 0, len(results))
	for _, r := range results {
		action := "assign"
		status := "open"
		if r.DraftResponse != "" {
			action = "solve"
			status = "solved"
		}

		slug, ok := teamSlugs[r.AssignedAgent]
		if !ok {
			slug = defaultTeamSlug
		}

		update := TicketUpdate{
			ID:           r.TicketID,
			Status:       status,
			Priority:     strings.ToLower(string(r.AssignedPriority)),
			Assignee:     slug,
			Tags:         []string{slug, strings.ToLower(string(r.AssignedPriority))},
			CustomFields: []CustomField{},
		}

		if r.Guardian.IsHighRisk {
			update.Tags = append(update.Tags, "churn-risk")
			update.CustomFields = append(update.CustomFields, CustomField{
				ID:    churnRiskFieldID,
				Value: r.Guardian.RiskScore,
			})
		}
		if r.Opportunity.HasBusinessIntent {
			update.Tags = append(update.Tags, "upsell-opportunity")
			update.CustomFields = append(update.CustomFields, CustomField{
				ID:    upsellFieldID,
				Value: string(r.Opportunity.IntentType),
			})
		}
		if action == "solve" {
			update.Comment = &Comment{Body: r.DraftResponse, Public: true}
		}

		calls = append(calls, APICall{
			TicketID:    r.TicketID,
			Action:      action,
			APIEndpoint: fmt.Sprintf("PUT /api/v2/tickets/%s.json", r.TicketID),
			APIPayload:  Payload{Ticket: update},
		})
	}
	return calls
}
