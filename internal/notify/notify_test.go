package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/linnemanlabs/deskpilot/internal/triage"
)

type mockMailer struct {
	err      error
	from, to string
	subject  string
	body     string
	calls    int
}

func (m *mockMailer) Send(_ context.Context, from, to, subject, htmlBody string) error {
	m.calls++
	m.from, m.to, m.subject, m.body = from, to, subject, htmlBody
	return m.err
}

func riskResult() *triage.Result {
	return &triage.Result{
		TicketID:      "TCK-009",
		CustomerName:  "Acme Corp",
		Subject:       "Still broken",
		Description:   "This is the 3rd time this fails, we are evaluating competitors",
		MRR:           5000,
		AssignedAgent: "Integrations & API Team",
		Guardian: triage.GuardianResult{
			RiskScore:  8,
			IsHighRisk: true,
			Sentiment:  triage.SentimentFrustrated,
			Evidence:   "evaluating competitors",
			Reasoning:  "Repeated failures and competitor mention",
		},
	}
}

func intentResult() *triage.Result {
	return &triage.Result{
		TicketID:     "TCK-010",
		CustomerName: "Globex",
		Subject:      "More seats",
		Description:  "Can we get a quote for 50 additional users?",
		MRR:          2000,
		Opportunity: triage.OpportunityResult{
			HasBusinessIntent: true,
			IntentType:        triage.IntentExpansion,
			Confidence:        9,
			Evidence:          "quote for 50 additional users",
		},
	}
}

func TestGuardianAlert_Sent(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	d := New(m, nil, Config{GuardianEmail: "kam@example.com"}, nil, nil)

	if !d.GuardianAlert(context.Background(), riskResult()) {
		t.Fatal("expected GuardianAlert to report sent")
	}
	if m.to != "kam@example.com" {
		t.Errorf("to = %q, want kam@example.com", m.to)
	}
	if m.from != "kam@example.com" {
		t.Errorf("from = %q, want recipient fallback when FromEmail unset", m.from)
	}
	if !strings.Contains(m.subject, "TCK-009") {
		t.Errorf("subject = %q, want ticket ID", m.subject)
	}
	if !strings.Contains(m.body, "8/10") {
		t.Errorf("body missing risk score:\n%s", m.body)
	}
	if !strings.Contains(m.body, "evaluating competitors") {
		t.Errorf("body missing evidence:\n%s", m.body)
	}
}

func TestGuardianAlert_NoRecipient(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	var failures []string
	d := New(m, nil, Config{}, nil, func(kind string) { failures = append(failures, kind) })

	if d.GuardianAlert(context.Background(), riskResult()) {
		t.Fatal("expected false with no recipient configured")
	}
	if m.calls != 0 {
		t.Errorf("mailer called %d times, want 0", m.calls)
	}
	if len(failures) != 1 || failures[0] != "guardian" {
		t.Errorf("failures = %v, want [guardian]", failures)
	}
}

func TestGuardianAlert_SendFailure(t *testing.T) {
	t.Parallel()

	m := &mockMailer{err: errors.New("boom")}
	d := New(m, nil, Config{GuardianEmail: "kam@example.com"}, nil, nil)

	if d.GuardianAlert(context.Background(), riskResult()) {
		t.Fatal("expected false on mailer error")
	}
}

func TestOpportunityAlert_Sent(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	cfg := Config{FromEmail: "alerts@example.com", OpportunityEmail: "sales@example.com"}
	d := New(m, nil, cfg, nil, nil)

	if !d.OpportunityAlert(context.Background(), intentResult()) {
		t.Fatal("expected OpportunityAlert to report sent")
	}
	if m.from != "alerts@example.com" {
		t.Errorf("from = %q, want configured FromEmail", m.from)
	}
	if !strings.Contains(m.subject, "Capacity Expansion") {
		t.Errorf("subject = %q, want intent display name", m.subject)
	}
	if !strings.Contains(m.body, "9/10") {
		t.Errorf("body missing confidence:\n%s", m.body)
	}
	if !strings.Contains(m.body, "volume discount") {
		t.Errorf("body missing expansion approach:\n%s", m.body)
	}
}

type mockMirror struct {
	guardian, opportunity int
	err                   error
}

func (m *mockMirror) GuardianAlert(context.Context, *triage.Result) error {
	m.guardian++
	return m.err
}

func (m *mockMirror) OpportunityAlert(context.Context, *triage.Result) error {
	m.opportunity++
	return m.err
}

func TestMirror_BestEffort(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	mirror := &mockMirror{err: errors.New("webhook down")}
	d := New(m, mirror, Config{GuardianEmail: "kam@example.com"}, nil, nil)

	// a failing mirror must not affect the delivery boolean
	if !d.GuardianAlert(context.Background(), riskResult()) {
		t.Fatal("mirror failure changed the outcome")
	}
	if mirror.guardian != 1 {
		t.Errorf("mirror calls = %d, want 1", mirror.guardian)
	}
}

func TestIntentDisplay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   triage.IntentType
		want string
	}{
		{triage.IntentPricing, "Pricing Inquiry"},
		{triage.IntentUpgrade, "Upgrade Interest"},
		{triage.IntentExpansion, "Capacity Expansion"},
		{triage.IntentCustomService, "Custom Service Request"},
		{"", "Business Inquiry"},
	}
	for _, tc := range cases {
		if got := intentDisplay(tc.in); got != tc.want {
			t.Errorf("intentDisplay(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
