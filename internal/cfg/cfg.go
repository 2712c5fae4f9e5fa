package cfg

import (
	"errors"
	"flag"
	"fmt"
)

// Config holds the application-specific configuration parsed from flags and
// environment variables.
type Config struct {
	TicketsPath      string
	AgentsPath       string
	KnowledgeBaseDir string
	OutputDir        string
	ClaudeAPIKey     string
	ClaudeModel      string
	SendGridAPIKey   string
	FromEmail        string
	GuardianEmail    string
	OpportunityEmail string
	SlackWebhookURL  string
	DatabaseURL      string
	ServePort        int
	APIToken         string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.TicketsPath, "tickets", "data/tickets_input.csv", "path to the ticket batch CSV")
	fs.StringVar(&c.AgentsPath, "agents", "data/agents.yaml", "path to the team roster YAML")
	fs.StringVar(&c.KnowledgeBaseDir, "knowledge-base", "data/knowledge_base", "directory of knowledge base FAQ JSON files")
	fs.StringVar(&c.OutputDir, "output-dir", "outputs", "directory for the report bundle")
	fs.StringVar(&c.ClaudeAPIKey, "claude-api-key", "", "API key for accessing the Claude LLM provider")
	fs.StringVar(&c.ClaudeModel, "claude-model", "claude-sonnet-4-20250514", "Claude model to use")
	fs.StringVar(&c.SendGridAPIKey, "sendgrid-api-key", "", "SendGrid API key for alert emails (empty = alerts skipped)")
	fs.StringVar(&c.FromEmail, "from-email", "", "sender address for alert emails")
	fs.StringVar(&c.GuardianEmail, "guardian-email", "", "recipient for churn risk alerts (empty = skipped)")
	fs.StringVar(&c.OpportunityEmail, "opportunity-email", "", "recipient for revenue opportunity alerts (empty = skipped)")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for mirroring alerts")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = in-memory store)")
	fs.IntVar(&c.ServePort, "serve-port", 0, "serve the report bundle over HTTP on this port after the run (0 = exit after writing outputs)")
	fs.StringVar(&c.APIToken, "api-token", "", "bearer token required for dashboard API access (empty = no auth)")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	if c.TicketsPath == "" {
		errs = append(errs, errors.New("TICKETS is required"))
	}
	if c.AgentsPath == "" {
		errs = append(errs, errors.New("AGENTS is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("OUTPUT_DIR is required"))
	}

	// Claude API key is required for LLM access
	if c.ClaudeAPIKey == "" {
		errs = append(errs, errors.New("CLAUDE_API_KEY is required"))
	}

	// Claude model is required for LLM access
	if c.ClaudeModel == "" {
		errs = append(errs, errors.New("CLAUDE_MODEL is required"))
	}

	// Alert emails need a configured sender and API key to go anywhere
	if (c.GuardianEmail != "" || c.OpportunityEmail != "") && c.SendGridAPIKey == "" {
		errs = append(errs, errors.New("SENDGRID_API_KEY is required when alert recipients are configured"))
	}

	if c.ServePort < 0 || c.ServePort > 65535 {
		errs = append(errs, fmt.Errorf("invalid SERVE_PORT %d (must be 0..65535)", c.ServePort))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
