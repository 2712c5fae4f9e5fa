// Package notify implements the alert dispatch boundary: it composes the
// guardian and opportunity alert emails and reduces every delivery outcome
// to a boolean. Failures never cross this boundary as errors.
package notify

import (
	"context"
	"fmt"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/deskpilot/internal/triage"
)

// Mailer delivers one HTML email.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, htmlBody string) error
}

// Mirror receives a best-effort copy of each alert (e.g. a Slack webhook).
// Mirror failures are logged and otherwise ignored.
type Mirror interface {
	GuardianAlert(ctx context.Context, r *triage.Result) error
	OpportunityAlert(ctx context.Context, r *triage.Result) error
}

// Config holds the alert recipient addresses. An empty address disables the
// corresponding alert kind: the send is skipped, logged, and reported as not
// sent.
type Config struct {
	FromEmail        string
	GuardianEmail    string
	OpportunityEmail string
}

// Dispatcher implements triage.Notifier.
type Dispatcher struct {
	mailer    Mailer
	mirror    Mirror
	cfg       Config
	logger    log.Logger
	onFailure func(kind string)
}

// New creates an alert dispatcher. mirror may be nil. onFailure, if non-nil,
// is invoked with "guardian" or "opportunity" whenever an alert is skipped
// or fails to send.
func New(mailer Mailer, mirror Mirror, cfg Config, logger log.Logger, onFailure func(kind string)) *Dispatcher {
	if logger == nil {
		logger = log.Nop()
	}
	return &Dispatcher{
		mailer:    mailer,
		mirror:    mirror,
		cfg:       cfg,
		logger:    logger,
		onFailure: onFailure,
	}
}

// GuardianAlert emails the key-account manager about a high churn-risk
// ticket. Returns whether the email was delivered.
func (d *Dispatcher) GuardianAlert(ctx context.Context, r *triage.Result) bool {
	if d.mirror != nil {
		if err := d.mirror.GuardianAlert(ctx, r); err != nil {
			d.logger.Warn(ctx, "guardian alert mirror failed", "ticket_id", r.TicketID, "error", err)
		}
	}

	subject := fmt.Sprintf("Guardian Alert - High Churn Risk: Ticket %s", r.TicketID)
	return d.send(ctx, "guardian", d.cfg.GuardianEmail, subject, guardianBody(r), r.TicketID)
}

// OpportunityAlert emails sales about a detected revenue signal. Returns
// whether the email was delivered.
func (d *Dispatcher) OpportunityAlert(ctx context.Context, r *triage.Result) bool {
	if d.mirror != nil {
		if err := d.mirror.OpportunityAlert(ctx, r); err != nil {
			d.logger.Warn(ctx, "opportunity alert mirror failed", "ticket_id", r.TicketID, "error", err)
		}
	}

	subject := fmt.Sprintf("Opportunity Alert - %s: Ticket %s", intentDisplay(r.Opportunity.IntentType), r.TicketID)
	return d.send(ctx, "opportunity", d.cfg.OpportunityEmail, subject, opportunityBody(r), r.TicketID)
}

func (d *Dispatcher) send(ctx context.Context, kind, to, subject, body, ticketID string) bool {
	if to == "" {
		d.logger.Warn(ctx, "alert recipient not configured, skipping email", "kind", kind, "ticket_id", ticketID)
		d.failed(kind)
		return false
	}

	from := d.cfg.FromEmail
	if from == "" {
		from = to
	}

	if err := d.mailer.Send(ctx, from, to, subject, body); err != nil {
		d.logger.Error(ctx, err, "alert email failed", "kind", kind, "ticket_id", ticketID, "to", to)
		d.failed(kind)
		return false
	}

	d.logger.Info(ctx, "alert email sent", "kind", kind, "ticket_id", ticketID, "to", to)
	return true
}

func (d *Dispatcher) failed(kind string) {
	if d.onFailure != nil {
		d.onFailure(kind)
	}
}

func intentDisplay(t triage.IntentType) string {
	switch t {
	case triage.IntentPricing:
		return "Pricing Inquiry"
	case triage.IntentUpgrade:
		return "Upgrade Interest"
	case triage.IntentExpansion:
		return "Capacity Expansion"
	case triage.IntentCustomService:
		return "Custom Service Request"
	}
	return "Business Inquiry"
}

func approachRecommendation(t triage.IntentType) string {
	switch t {
	case triage.IntentPricing:
		return "Provide detailed pricing breakdown, highlight ROI and value proposition"
	case triage.IntentUpgrade:
		return "Showcase enterprise features, offer demo of advanced capabilities, discuss migration path"
	case triage.IntentExpansion:
		return "Present volume discount options, discuss scalability roadmap, flexible payment terms"
	case triage.IntentCustomService:
		return "Schedule technical consultation, gather detailed requirements, prepare custom proposal"
	}
	return "Understand specific needs and provide tailored solution"
}
