package triage

import "context"

// Provider is the interface for the text-completion backend every stage
// delegates to. Implementations must be safe for sequential reuse; the
// pipeline performs no retries of its own.
type Provider interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}
