// Package pgstore provides a PostgreSQL implementation of triage.Store.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/deskpilot/internal/triage"
)

//go:embed schema.sql
var schema string

// Store persists triage results in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL, applies the schema, and returns a ready Store.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close shuts down the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

const resultColumns = `ticket_id, customer_name, subject, description, channel, mrr, ticket_ts,
	priority, agent, guardian, opportunity, draft_response`

// Put inserts or updates a triage result, keyed by ticket ID.
func (s *Store) Put(ctx context.Context, r *triage.Result) error {
	guardianJSON, err := json.Marshal(r.Guardian)
	if err != nil {
		return fmt.Errorf("marshal guardian: %w", err)
	}
	opportunityJSON, err := json.Marshal(r.Opportunity)
	if err != nil {
		return fmt.Errorf("marshal opportunity: %w", err)
	}

	query := `
		INSERT INTO triage_results (` + resultColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (ticket_id) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			subject = EXCLUDED.subject,
			description = EXCLUDED.description,
			channel = EXCLUDED.channel,
			mrr = EXCLUDED.mrr,
			ticket_ts = EXCLUDED.ticket_ts,
			priority = EXCLUDED.priority,
			agent = EXCLUDED.agent,
			guardian = EXCLUDED.guardian,
			opportunity = EXCLUDED.opportunity,
			draft_response = EXCLUDED.draft_response`

	_, err = s.pool.Exec(ctx, query,
		r.TicketID, r.CustomerName, r.Subject, r.Description, r.Channel, r.MRR, r.Timestamp,
		string(r.AssignedPriority), r.AssignedAgent, guardianJSON, opportunityJSON, r.DraftResponse,
	)
	if err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

// Get retrieves a triage result by ticket ID.
func (s *Store) Get(ctx context.Context, ticketID string) (*triage.Result, bool, error) {
	query := `SELECT ` + resultColumns + ` FROM triage_results WHERE ticket_id = $1`
	r, err := scanResult(s.pool.QueryRow(ctx, query, ticketID))
	if err != nil {
		return nil, false, err
	}
	if r == nil {
		return nil, false, nil
	}
	return r, true, nil
}

// List returns all triage results in insertion order.
func (s *Store) List(ctx context.Context) ([]*triage.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM triage_results ORDER BY seq`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []*triage.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

func scanResult(row pgx.Row) (*triage.Result, error) {
	var (
		r               triage.Result
		priority        string
		guardianJSON    []byte
		opportunityJSON []byte
	)

	err := row.Scan(
		&r.TicketID, &r.CustomerName, &r.Subject, &r.Description, &r.Channel, &r.MRR, &r.Timestamp,
		&priority, &r.AssignedAgent, &guardianJSON, &opportunityJSON, &r.DraftResponse,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}

	r.AssignedPriority = triage.Priority(priority)
	if err := json.Unmarshal(guardianJSON, &r.Guardian); err != nil {
		return nil, fmt.Errorf("unmarshal guardian: %w", err)
	}
	if err := json.Unmarshal(opportunityJSON, &r.Opportunity); err != nil {
		return nil, fmt.Errorf("unmarshal opportunity: %w", err)
	}
	return &r, nil
}
