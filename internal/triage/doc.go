// Package triage provides the business boundary for deskpilot's support
// ticket triage pipeline. It defines the Service (batch run lifecycle), the
// Engine (the fixed five-stage classification pipeline), the Store interface
// (result persistence), the Provider interface (text-completion backend), and
// the domain models.
package triage
