package triage

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the triage pipeline.
type Metrics struct {
	TicketsTotal           *prometheus.CounterVec
	RoutesTotal            *prometheus.CounterVec
	GuardianAlertsTotal    prometheus.Counter
	OpportunityAlertsTotal prometheus.Counter
	DraftsTotal            prometheus.Counter
	StageFallbacksTotal    *prometheus.CounterVec
	LLMCallsTotal          prometheus.Counter
	AlertSendFailures      *prometheus.CounterVec
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicketsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskpilot_tickets_total",
			Help: "Tickets triaged, by assigned priority.",
		}, []string{"priority"}),
		RoutesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskpilot_routes_total",
			Help: "Tickets routed, by assigned team.",
		}, []string{"team"}),
		GuardianAlertsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deskpilot_guardian_alerts_total",
			Help: "Tickets flagged as high churn risk.",
		}),
		OpportunityAlertsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deskpilot_opportunity_alerts_total",
			Help: "Tickets flagged with commercial intent.",
		}),
		DraftsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deskpilot_drafts_total",
			Help: "Draft responses generated.",
		}),
		StageFallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskpilot_stage_fallbacks_total",
			Help: "Pipeline stages that resolved to a fallback value.",
		}, []string{"stage"}),
		LLMCallsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deskpilot_llm_calls_total",
			Help: "Completion requests issued to the LLM provider.",
		}),
		AlertSendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskpilot_alert_send_failures_total",
			Help: "Alert dispatches that were skipped or failed.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.TicketsTotal,
		m.RoutesTotal,
		m.GuardianAlertsTotal,
		m.OpportunityAlertsTotal,
		m.DraftsTotal,
		m.StageFallbacksTotal,
		m.LLMCallsTotal,
		m.AlertSendFailures,
	)
	return m
}

// InstrumentProvider wraps a Provider so every completion request is counted.
func (m *Metrics) InstrumentProvider(p Provider) Provider {
	return &countingProvider{next: p, calls: m.LLMCallsTotal}
}

type countingProvider struct {
	next  Provider
	calls prometheus.Counter
}

func (c *countingProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	c.calls.Inc()
	return c.next.Complete(ctx, prompt, maxTokens)
}

// Hooks adapts the metrics into engine callbacks.
func (m *Metrics) Hooks() EngineHooks {
	return EngineHooks{
		OnPriority: func(p Priority, fellBack bool) {
			m.TicketsTotal.WithLabelValues(string(p)).Inc()
			if fellBack {
				m.StageFallbacksTotal.WithLabelValues("priority").Inc()
			}
		},
		OnRoute: func(team string, fellBack bool) {
			m.RoutesTotal.WithLabelValues(team).Inc()
			if fellBack {
				m.StageFallbacksTotal.WithLabelValues("route").Inc()
			}
		},
		OnGuardian: func(highRisk, fellBack bool) {
			if highRisk {
				m.GuardianAlertsTotal.Inc()
			}
			if fellBack {
				m.StageFallbacksTotal.WithLabelValues("guardian").Inc()
			}
		},
		OnOpportunity: func(hasIntent, fellBack bool) {
			if hasIntent {
				m.OpportunityAlertsTotal.Inc()
			}
			if fellBack {
				m.StageFallbacksTotal.WithLabelValues("opportunity").Inc()
			}
		},
		OnDraft: func(generated bool) {
			if generated {
				m.DraftsTotal.Inc()
			} else {
				m.StageFallbacksTotal.WithLabelValues("draft").Inc()
			}
		},
	}
}
