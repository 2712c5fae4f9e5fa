// Package ticket defines the immutable support-ticket input record and its
// CSV loader.
package ticket

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Ticket is a single incoming support ticket. Loaded once per run and never
// mutated by the pipeline.
type Ticket struct {
	ID             string  `json:"ticket_id"`
	CustomerName   string  `json:"customer_name"`
	Subject        string  `json:"subject"`
	Description    string  `json:"description"`
	Channel        string  `json:"channel"`
	MRR            float64 `json:"mrr"`
	Timestamp      string  `json:"timestamp"`
	ActualPriority string  `json:"actual_priority,omitempty"`
}

// LoadCSV reads tickets from a CSV file with a header row. Required columns:
// ticket_id, customer_name, subject, description, channel, mrr, timestamp.
// The actual_priority column is optional.
func LoadCSV(path string) ([]Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tickets file: %w", err)
	}
	defer func() { _ = f.Close() }()

	tickets, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tickets, nil
}

var requiredColumns = []string{
	"ticket_id", "customer_name", "subject", "description", "channel", "mrr", "timestamp",
}

func parseCSV(r io.Reader) ([]Ticket, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(strings.ToLower(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var tickets []Ticket
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		mrrStr := field(row, "mrr")
		mrr, err := strconv.ParseFloat(mrrStr, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid mrr %q: %w", line, mrrStr, err)
		}

		t := Ticket{
			ID:             field(row, "ticket_id"),
			CustomerName:   field(row, "customer_name"),
			Subject:        field(row, "subject"),
			Description:    field(row, "description"),
			Channel:        field(row, "channel"),
			MRR:            mrr,
			Timestamp:      field(row, "timestamp"),
			ActualPriority: field(row, "actual_priority"),
		}
		if t.ID == "" {
			return nil, fmt.Errorf("line %d: empty ticket_id", line)
		}
		tickets = append(tickets, t)
	}

	return tickets, nil
}
