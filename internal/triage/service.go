package triage

import (
	"context"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/deskpilot/internal/ticket"
)

// Service is the business boundary for batch triage: it owns the run
// lifecycle and persists every result as it is produced.
type Service struct {
	store  Store
	engine *Engine
	logger log.Logger
}

// NewService creates a batch triage service.
func NewService(store Store, engine *Engine, logger log.Logger) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:  store,
		engine: engine,
		logger: logger,
	}
}

// RunSummary describes one completed batch.
type RunSummary struct {
	RunID    string
	Tickets  int
	Duration time.Duration
}

// Process triages every ticket strictly one at a time, in input order. Each
// result is stored as soon as its pipeline completes. Classifier failures
// never drop a ticket; a store failure aborts the batch since later output
// artifacts would be incomplete.
func (s *Service) Process(ctx context.Context, tickets []ticket.Ticket) ([]*Result, RunSummary, error) {
	runID := ulid.Make().String()
	start := time.Now()

	L := s.logger.With("run_id", runID)
	L.Info(ctx, "starting triage run", "tickets", len(tickets))

	results := make([]*Result, 0, len(tickets))
	for _, t := range tickets {
		r := s.engine.Run(ctx, t)
		if err := s.store.Put(ctx, r); err != nil {
			return nil, RunSummary{}, err
		}
		results = append(results, r)
	}

	summary := RunSummary{
		RunID:    runID,
		Tickets:  len(results),
		Duration: time.Since(start),
	}
	L.Info(ctx, "triage run complete",
		"tickets", summary.Tickets,
		"duration", summary.Duration.Seconds(),
	)
	return results, summary, nil
}
