package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linnemanlabs/deskpilot/internal/triage"
)

func boolPtr(b bool) *bool { return &b }

func sampleResults() []*triage.Result {
	return []*triage.Result{
		{
			TicketID:         "TCK-001",
			CustomerName:     "Acme Corp",
			Subject:          "Webhook deliveries failing",
			Description:      "Webhooks stopped yesterday.",
			Channel:          "email",
			MRR:              5000,
			Timestamp:        "2025-01-06T09:12:00Z",
			AssignedPriority: triage.P1,
			AssignedAgent:    "Integrations & API Team",
			Guardian: triage.GuardianResult{
				RiskScore:  8,
				IsHighRisk: true,
				Sentiment:  triage.SentimentAngry,
				Evidence:   "third outage this month",
				Reasoning:  "repeated incidents",
				EmailSent:  boolPtr(true),
			},
			Opportunity: triage.OpportunityResult{Reasoning: "no signals"},
		},
		{
			TicketID:         "TCK-002",
			CustomerName:     "Globex",
			Subject:          "Interested in the enterprise plan",
			Description:      "Can we get pricing for enterprise?",
			Channel:          "chat",
			MRR:              1200,
			Timestamp:        "2025-01-06T10:03:00Z",
			AssignedPriority: triage.P3,
			AssignedAgent:    "Compliance & Operations Team",
			Guardian: triage.GuardianResult{
				RiskScore: 1,
				Sentiment: triage.SentimentNeutral,
				Reasoning: "calm inquiry",
			},
			Opportunity: triage.OpportunityResult{
				HasBusinessIntent: true,
				IntentType:        triage.IntentPricing,
				Confidence:        9,
				Evidence:          "pricing for enterprise",
				Reasoning:         "explicit pricing ask",
				EmailSent:         boolPtr(false),
			},
			DraftResponse: "Hi Globex,\n\nHappy to help with enterprise pricing.\n\nCompliance & Operations Team",
		},
	}
}

func TestComputeMetrics(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(sampleResults())
	want := Metrics{
		TotalTickets:      2,
		GuardianAlerts:    1,
		OpportunityAlerts: 1,
		AutoResolved:      1,
		AutoResolvedRate:  "50.0%",
	}
	if m != want {
		t.Errorf("ComputeMetrics = %+v, want %+v", m, want)
	}
}

func TestComputeMetrics_Empty(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(nil)
	if m.TotalTickets != 0 || m.AutoResolvedRate != "0.0%" {
		t.Errorf("ComputeMetrics(nil) = %+v", m)
	}
}

func TestWriteAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := NewBuilder(filepath.Join(dir, "outputs"), nil)

	if err := b.WriteAll(context.Background(), sampleResults()); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	for _, name := range []string{
		ResultsFile, MetricsFile, GuardianLogFile, OpportunityLogFile, ZendeskCallsFile, DashboardFile,
	} {
		if _, err := os.Stat(filepath.Join(dir, "outputs", name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "outputs", GuardianLogFile))
	if err != nil {
		t.Fatal(err)
	}
	var entries []GuardianLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("parse guardian log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d guardian entries, want 1", len(entries))
	}
	got := entries[0]
	if got.TicketID != "TCK-001" || got.RiskScore != 8 || !got.EmailSent {
		t.Errorf("guardian entry = %+v", got)
	}

	data, err = os.ReadFile(filepath.Join(dir, "outputs", OpportunityLogFile))
	if err != nil {
		t.Fatal(err)
	}
	var opp []OpportunityLogEntry
	if err := json.Unmarshal(data, &opp); err != nil {
		t.Fatalf("parse opportunity log: %v", err)
	}
	if len(opp) != 1 || opp[0].TicketID != "TCK-002" || opp[0].EmailSent {
		t.Errorf("opportunity log = %+v", opp)
	}
}

func TestWriteAll_Dashboard(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := NewBuilder(dir, nil)
	if err := b.WriteAll(context.Background(), sampleResults()); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, DashboardFile))
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	for _, want := range []string{
		"Multi-Channel Support Triage System",
		"TCK-001",
		"third outage this month",
		"Pricing Request",
		"P1 - High",
		"P3 - Low",
		"Auto-resolved",
		"Ticket TCK-001 - assign",
		"integrations-api-team",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}
