package triage

import (
	"context"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/deskpilot/internal/agent"
	"github.com/linnemanlabs/deskpilot/internal/kb"
	"github.com/linnemanlabs/deskpilot/internal/ticket"
)

// Notifier dispatches alerts for high-risk and high-intent tickets. The
// boolean is the only outcome surface: failures and skipped sends are both
// false, never an error.
type Notifier interface {
	GuardianAlert(ctx context.Context, r *Result) bool
	OpportunityAlert(ctx context.Context, r *Result) bool
}

// EngineHooks are optional instrumentation callbacks. Nil fields are skipped
// so the engine stays testable without a metrics registry.
type EngineHooks struct {
	OnPriority    func(p Priority, fellBack bool)
	OnRoute       func(team string, fellBack bool)
	OnGuardian    func(highRisk, fellBack bool)
	OnOpportunity func(hasIntent, fellBack bool)
	OnDraft       func(generated bool)
}

// Engine runs one ticket through the fixed five-stage triage pipeline:
// priority, routing, churn risk, commercial intent, draft response. Stages
// run strictly in order and each one resolves internally to a value, so Run
// always produces a complete result record for every input ticket.
type Engine struct {
	classifier  *PriorityClassifier
	router      *Router
	guardian    *Guardian
	opportunity *Opportunity
	responder   *Responder
	roster      *agent.Roster
	notifier    Notifier
	logger      log.Logger
	hooks       EngineHooks
}

// NewEngine creates a triage engine over the given provider and roster.
// notifier may be nil, in which case alerts are skipped and recorded as not
// sent.
func NewEngine(provider Provider, roster *agent.Roster, knowledge kb.KnowledgeBase, notifier Notifier, logger log.Logger, hooks EngineHooks) *Engine {
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{
		classifier:  NewPriorityClassifier(provider, logger),
		router:      NewRouter(provider, logger),
		guardian:    NewGuardian(provider, logger),
		opportunity: NewOpportunity(provider, logger),
		responder:   NewResponder(provider, knowledge, logger),
		roster:      roster,
		notifier:    notifier,
		logger:      logger,
		hooks:       hooks,
	}
}

// stage is one step of the pipeline: it takes the immutable ticket plus the
// accumulated partial result and returns an updated result. Stages append
// their own fields and never rewrite earlier ones.
type stage func(ctx context.Context, t ticket.Ticket, r Result) Result

// Run executes the five stages for one ticket in fixed order.
func (e *Engine) Run(ctx context.Context, t ticket.Ticket) *Result {
	L := e.logger.With("ticket_id", t.ID, "customer", t.CustomerName)
	L.Info(ctx, "triaging ticket", "subject", t.Subject)

	stages := []stage{
		e.classifyStage,
		e.routeStage,
		e.guardianStage,
		e.opportunityStage,
		e.draftStage,
	}

	r := newResult(t)
	for _, s := range stages {
		r = s(ctx, t, r)
	}

	L.Info(ctx, "triage complete",
		"priority", r.AssignedPriority,
		"agent", r.AssignedAgent,
		"risk_score", r.Guardian.RiskScore,
		"high_risk", r.Guardian.IsHighRisk,
		"business_intent", r.Opportunity.HasBusinessIntent,
		"drafted", r.DraftResponse != "",
	)
	return &r
}

func (e *Engine) classifyStage(ctx context.Context, t ticket.Ticket, r Result) Result {
	p, fellBack := e.classifier.Classify(ctx, t)
	r.AssignedPriority = p
	if e.hooks.OnPriority != nil {
		e.hooks.OnPriority(p, fellBack)
	}
	return r
}

func (e *Engine) routeStage(ctx context.Context, t ticket.Ticket, r Result) Result {
	team, fellBack := e.router.Route(ctx, t, e.roster)
	r.AssignedAgent = team
	if e.hooks.OnRoute != nil {
		e.hooks.OnRoute(team, fellBack)
	}
	return r
}

func (e *Engine) guardianStage(ctx context.Context, t ticket.Ticket, r Result) Result {
	res, fellBack := e.guardian.Analyze(ctx, t.Description, t.MRR, r.AssignedPriority)
	r.Guardian = res

	if res.IsHighRisk {
		e.logger.Warn(ctx, "high churn risk detected",
			"ticket_id", t.ID,
			"risk_score", res.RiskScore,
		)
		sent := false
		if e.notifier != nil {
			sent = e.notifier.GuardianAlert(ctx, &r)
		}
		r.Guardian.EmailSent = &sent
	}

	if e.hooks.OnGuardian != nil {
		e.hooks.OnGuardian(res.IsHighRisk, fellBack)
	}
	return r
}

func (e *Engine) opportunityStage(ctx context.Context, t ticket.Ticket, r Result) Result {
	res, fellBack := e.opportunity.Analyze(ctx, t.Description)
	r.Opportunity = res

	if res.HasBusinessIntent {
		e.logger.Info(ctx, "revenue opportunity detected",
			"ticket_id", t.ID,
			"intent_type", res.IntentType,
			"confidence", res.Confidence,
		)
		sent := false
		if e.notifier != nil {
			sent = e.notifier.OpportunityAlert(ctx, &r)
		}
		r.Opportunity.EmailSent = &sent
	}

	if e.hooks.OnOpportunity != nil {
		e.hooks.OnOpportunity(res.HasBusinessIntent, fellBack)
	}
	return r
}

func (e *Engine) draftStage(ctx context.Context, t ticket.Ticket, r Result) Result {
	// P0/P1 always go to a human untouched.
	if r.AssignedPriority != P2 && r.AssignedPriority != P3 {
		return r
	}

	draft := e.responder.Generate(ctx, t, r.AssignedAgent)
	r.DraftResponse = draft
	if draft != "" {
		e.logger.Info(ctx, "draft response generated", "ticket_id", t.ID, "chars", len(draft))
	}
	if e.hooks.OnDraft != nil {
		e.hooks.OnDraft(draft != "")
	}
	return r
}
