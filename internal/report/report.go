// Package report renders the per-run output bundle: the raw results JSON,
// a metrics summary, the guardian and opportunity alert logs, the simulated
// Zendesk API call log and a self-contained HTML dashboard.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/deskpilot/internal/triage"
)

// Output file names within the bundle directory.
const (
	ResultsFile        = "triage_results.json"
	MetricsFile        = "metrics_summary.json"
	GuardianLogFile    = "guardian_alerts_log.json"
	OpportunityLogFile = "opportunity_alerts_log.json"
	ZendeskCallsFile   = "zendesk_api_calls.json"
	DashboardFile      = "triage_report.html"
)

// Metrics is the run-level summary written to metrics_summary.json.
type Metrics struct {
	TotalTickets      int    `json:"total_tickets"`
	GuardianAlerts    int    `json:"guardian_alerts"`
	OpportunityAlerts int    `json:"opportunity_alerts"`
	AutoResolved      int    `json:"auto_resolved"`
	AutoResolvedRate  string `json:"auto_resolved_rate"`
}

// GuardianLogEntry is one row of the guardian alert log.
type GuardianLogEntry struct {
	TicketID  string `json:"ticket_id"`
	Customer  string `json:"customer"`
	RiskScore int    `json:"risk_score"`
	Evidence  string `json:"evidence"`
	EmailSent bool   `json:"email_sent"`
}

// OpportunityLogEntry is one row of the opportunity alert log.
type OpportunityLogEntry struct {
	TicketID   string            `json:"ticket_id"`
	Customer   string            `json:"customer"`
	IntentType triage.IntentType `json:"intent_type"`
	Confidence int               `json:"confidence"`
	Evidence   string            `json:"evidence"`
	EmailSent  bool              `json:"email_sent"`
}

// Builder writes the full output bundle for one triage run.
type Builder struct {
	dir    string
	logger log.Logger
	now    func() time.Time
}

// NewBuilder creates a report builder writing into dir. The directory is
// created on first write if missing.
func NewBuilder(dir string, logger log.Logger) *Builder {
	if logger == nil {
		logger = log.Nop()
	}
	return &Builder{dir: dir, logger: logger, now: time.Now}
}

// WriteAll renders every bundle artifact. Files already present from a
// previous run are overwritten.
func (b *Builder) WriteAll(ctx context.Context, results []*triage.Result) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	metrics := ComputeMetrics(results)
	calls := BuildAPICalls(results)

	artifacts := []struct {
		name string
		v    any
	}{
		{ResultsFile, results},
		{MetricsFile, metrics},
		{GuardianLogFile, guardianLog(results)},
		{OpportunityLogFile, opportunityLog(results)},
		{ZendeskCallsFile, calls},
	}
	for _, a := range artifacts {
		if err := b.writeJSON(a.name, a.v); err != nil {
			return err
		}
		b.logger.Info(ctx, "wrote report artifact", "file", a.name)
	}

	if err := b.writeDashboard(results, metrics, calls); err != nil {
		return err
	}
	b.logger.Info(ctx, "wrote report artifact", "file", DashboardFile)
	return nil
}

// ComputeMetrics derives the run summary counters from the result set.
func ComputeMetrics(results []*triage.Result) Metrics {
	m := Metrics{TotalTickets: len(results)}
	for _, r := range results {
		if r.Guardian.IsHighRisk {
			m.GuardianAlerts++
		}
		if r.Opportunity.HasBusinessIntent {
			m.OpportunityAlerts++
		}
		if r.DraftResponse != "" {
			m.AutoResolved++
		}
	}

	rate := 0.0
	if m.TotalTickets > 0 {
		rate = float64(m.AutoResolved) / float64(m.TotalTickets) * 100
	}
	m.AutoResolvedRate = fmt.Sprintf("%.1f%%", rate)
	return m
}

func guardianLog(results []*triage.Result) []GuardianLogEntry {
	entries := []GuardianLogEntry{}
	for _, r := range results {
		if !r.Guardian.IsHighRisk {
			continue
		}
		entries = append(entries, GuardianLogEntry{
			TicketID:  r.TicketID,
			Customer:  r.CustomerName,
			RiskScore: r.Guardian.RiskScore,
			Evidence:  r.Guardian.Evidence,
			EmailSent: r.Guardian.EmailSent != nil && *r.Guardian.EmailSent,
		})
	}
	return entries
}

func opportunityLog(results []*triage.Result) []OpportunityLogEntry {
	entries := []OpportunityLogEntry{}
	for _, r := range results {
		if !r.Opportunity.HasBusinessIntent {
			continue
		}
		entries = append(entries, OpportunityLogEntry{
			TicketID:   r.TicketID,
			Customer:   r.CustomerName,
			IntentType: r.Opportunity.IntentType,
			Confidence: r.Opportunity.Confidence,
			Evidence:   r.Opportunity.Evidence,
			EmailSent:  r.Opportunity.EmailSent != nil && *r.Opportunity.EmailSent,
		})
	}
	return entries
}

func (b *Builder) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(b.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
