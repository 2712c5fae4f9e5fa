package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/linnemanlabs/deskpilot/internal/triage"
)

//go:embed templates/dashboard.html.tmpl
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html.tmpl").Funcs(template.FuncMap{
	"pct":           pct,
	"truncate":      truncate,
	"intentDisplay": intentDisplay,
	"priorityColor": priorityColor,
	"priorityLabel": priorityLabel,
	"jsonIndent":    jsonIndent,
}).ParseFS(templateFS, "templates/dashboard.html.tmpl"))

// dashboardData is the template input for one rendered report.
type dashboardData struct {
	GeneratedAt       string
	Metrics           Metrics
	Results           []*triage.Result
	GuardianAlerts    []*triage.Result
	OpportunityAlerts []*triage.Result
	SampleCalls       []APICall
}

// samplePreviewCalls bounds the API preview section.
const samplePreviewCalls = 3

func (b *Builder) writeDashboard(results []*triage.Result, metrics Metrics, calls []APICall) error {
	var guardianAlerts, opportunityAlerts []*triage.Result
	for _, r := range results {
		if r.Guardian.IsHighRisk {
			guardianAlerts = append(guardianAlerts, r)
		}
		if r.Opportunity.HasBusinessIntent {
			opportunityAlerts = append(opportunityAlerts, r)
		}
	}

	sample := calls
	if len(sample) > samplePreviewCalls {
		sample = sample[:samplePreviewCalls]
	}

	data := dashboardData{
		GeneratedAt:       b.now().Format("2006-01-02 15:04:05"),
		Metrics:           metrics,
		Results:           results,
		GuardianAlerts:    guardianAlerts,
		OpportunityAlerts: opportunityAlerts,
		SampleCalls:       sample,
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.dir, DashboardFile), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", DashboardFile, err)
	}
	return nil
}

func pct(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(n)/float64(total)*100)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func intentDisplay(t triage.IntentType) string {
	if t == "" {
		return "Unknown"
	}
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func priorityColor(p triage.Priority) string {
	switch p {
	case triage.P0:
		return "bg-red-100 text-red-800"
	case triage.P1:
		return "bg-orange-100 text-orange-800"
	case triage.P2:
		return "bg-blue-100 text-blue-800"
	case triage.P3:
		return "bg-green-100 text-green-800"
	}
	return "bg-gray-100 text-gray-800"
}

func priorityLabel(p triage.Priority) string {
	switch p {
	case triage.P0:
		return "P0 - Critical"
	case triage.P1:
		return "P1 - High"
	case triage.P2:
		return "P2 - Medium"
	case triage.P3:
		return "P3 - Low"
	}
	return string(p)
}

func jsonIndent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}
