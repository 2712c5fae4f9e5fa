package notify

import (
	"bytes"
	"html/template"

	"github.com/linnemanlabs/deskpilot/internal/triage"
)

var guardianTmpl = template.Must(template.New("guardian").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2 style="color: #d32f2f;">Guardian Alert - High Churn Risk</h2>

    <div style="background: #fff3e0; padding: 15px; border-left: 4px solid #ff9800; margin: 20px 0;">
        <h3 style="margin-top: 0;">Critical Account Alert</h3>
        <p>The triage system has flagged a high-risk situation requiring immediate attention.</p>
    </div>

    <h3>Ticket Details</h3>
    <table style="border-collapse: collapse; width: 100%;">
        <tr><td style="padding: 8px; background: #f5f5f5;"><strong>Ticket ID:</strong></td><td style="padding: 8px;">{{.TicketID}}</td></tr>
        <tr><td style="padding: 8px; background: #f5f5f5;"><strong>Customer:</strong></td><td style="padding: 8px;">{{.CustomerName}}</td></tr>
        <tr><td style="padding: 8px; background: #f5f5f5;"><strong>MRR:</strong></td><td style="padding: 8px;">${{printf "%.0f" .MRR}}</td></tr>
        <tr><td style="padding: 8px; background: #f5f5f5;"><strong>Risk Score:</strong></td><td style="padding: 8px; color: #d32f2f;"><strong>{{.Guardian.RiskScore}}/10</strong></td></tr>
        <tr><td style="padding: 8px; background: #f5f5f5;"><strong>Sentiment:</strong></td><td style="padding: 8px;">{{.Guardian.Sentiment}}</td></tr>
    </table>

    <h3>Risk Signals Detected</h3>
    <div style="background: #ffebee; padding: 15px; border-radius: 4px;">
        <p><strong>Evidence:</strong> "{{.Guardian.Evidence}}"</p>
        <p><strong>Assessment:</strong> {{.Guardian.Reasoning}}</p>
    </div>

    <h3>Ticket Content</h3>
    <div style="background: #f5f5f5; padding: 15px; border-radius: 4px;">
        <p><strong>Subject:</strong> {{.Subject}}</p>
        <p><strong>Description:</strong></p>
        <p style="white-space: pre-wrap;">{{.Description}}</p>
    </div>

    <h3>Recommended Action</h3>
    <div style="background: #e8f5e9; padding: 15px; border-left: 4px solid #4caf50; margin: 20px 0;">
        <p><strong>Priority:</strong> Immediate outreach within 2 hours</p>
        <p><strong>Approach:</strong> Acknowledge frustration, provide executive-level attention, offer concrete resolution timeline</p>
        <p><strong>Technical Context:</strong> Issue assigned to {{.AssignedAgent}}</p>
    </div>

    <hr style="margin: 30px 0; border: none; border-top: 1px solid #ddd;">
    <p style="font-size: 12px; color: #777;">
        This alert was generated automatically by the deskpilot Guardian system.<br>
        For questions, contact the CS Operations team.
    </p>
</body>
</html>
`))

var opportunityTmpl = template.Must(template.New("opportunity").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2 style="color: #2e7d32;">Opportunity Alert - Revenue Signal Detected</h2>

    <div style="background: #e8f5e9; padding: 15px; border-left: 4px solid #4caf50; margin: 20px 0;">
        <h3 style="margin-top: 0;">Commercial Intent Identified</h3>
        <p>A support ticket contains a clear commercial signal that requires sales follow-up.</p>
    </div>

    <h3>Opportunity Details</h3>
    <table style="border-collapse: collapse; width: 100%;">
        <tr><td style="padding: 8px; background: #f5f5f5;"><strong>Ticket ID:</strong></td><td style="padding: 8px;">{{.Result.TicketID}}</td></tr>
        <tr><td style="padding: 8px; background: #f5f5f5;"><strong>Customer:</strong></td><td style="padding: 8px;">{{.Result.CustomerName}}</td></tr>
        <tr><td style="padding: 8px; background: #f5f5f5;"><strong>Current MRR:</strong></td><td style="padding: 8px;">${{printf "%.0f" .Result.MRR}}</td></tr>
        <tr><td style="padding: 8px; background: #f5f5f5;"><strong>Intent Type:</strong></td><td style="padding: 8px; color: #2e7d32;"><strong>{{.IntentDisplay}}</strong></td></tr>
        <tr><td style="padding: 8px; background: #f5f5f5;"><strong>Confidence:</strong></td><td style="padding: 8px;">{{.Result.Opportunity.Confidence}}/10</td></tr>
    </table>

    <h3>Customer Quote</h3>
    <div style="background: #fff3e0; padding: 15px; border-radius: 4px; border-left: 4px solid #ff9800;">
        <p style="font-style: italic; margin: 0;">"{{.Result.Opportunity.Evidence}}"</p>
    </div>

    <h3>Full Ticket Context</h3>
    <div style="background: #f5f5f5; padding: 15px; border-radius: 4px;">
        <p><strong>Subject:</strong> {{.Result.Subject}}</p>
        <p><strong>Description:</strong></p>
        <p style="white-space: pre-wrap;">{{.Result.Description}}</p>
    </div>

    <h3>Analysis</h3>
    <div style="background: #e3f2fd; padding: 15px; border-radius: 4px;">
        <p>{{.Result.Opportunity.Reasoning}}</p>
    </div>

    <h3>Recommended Action</h3>
    <div style="background: #e8f5e9; padding: 15px; border-left: 4px solid #4caf50; margin: 20px 0;">
        <p><strong>Timeline:</strong> Respond within 24 hours while intent is active</p>
        <p><strong>Approach:</strong> {{.Approach}}</p>
        <p><strong>Next Steps:</strong> Contact customer to understand requirements and provide customized proposal</p>
    </div>

    <hr style="margin: 30px 0; border: none; border-top: 1px solid #ddd;">
    <p style="font-size: 12px; color: #777;">
        This alert was generated automatically by the deskpilot Opportunity system.<br>
        For questions, contact the CS Operations team.
    </p>
</body>
</html>
`))

func guardianBody(r *triage.Result) string {
	var buf bytes.Buffer
	if err := guardianTmpl.Execute(&buf, r); err != nil {
		// template data is a plain struct, execution cannot fail at runtime
		return ""
	}
	return buf.String()
}

func opportunityBody(r *triage.Result) string {
	data := struct {
		Result        *triage.Result
		IntentDisplay string
		Approach      string
	}{
		Result:        r,
		IntentDisplay: intentDisplay(r.Opportunity.IntentType),
		Approach:      approachRecommendation(r.Opportunity.IntentType),
	}

	var buf bytes.Buffer
	if err := opportunityTmpl.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}
