package triage

import "context"

// Store is the persistence interface for triage results, keyed by ticket ID.
type Store interface {
	Put(ctx context.Context, r *Result) error
	Get(ctx context.Context, ticketID string) (*Result, bool, error)

	// List returns all results in insertion order.
	List(ctx context.Context) ([]*Result, error)
}
