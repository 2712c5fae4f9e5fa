package ticket

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `ticket_id,customer_name,subject,description,channel,mrr,timestamp,actual_priority
TCK-001,Acme Corp,API timeouts,Webhook calls time out since Monday,email,5000,2025-01-06T09:12:00Z,P1
TCK-002,Globex,Password reset,How do I reset my password?,chat,800,2025-01-06T10:03:00Z,
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickets.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	tickets, err := LoadCSV(writeTemp(t, sampleCSV))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("len = %d, want 2", len(tickets))
	}

	first := tickets[0]
	if first.ID != "TCK-001" {
		t.Errorf("ID = %q, want %q", first.ID, "TCK-001")
	}
	if first.CustomerName != "Acme Corp" {
		t.Errorf("CustomerName = %q, want %q", first.CustomerName, "Acme Corp")
	}
	if first.MRR != 5000 {
		t.Errorf("MRR = %v, want 5000", first.MRR)
	}
	if first.ActualPriority != "P1" {
		t.Errorf("ActualPriority = %q, want %q", first.ActualPriority, "P1")
	}
	if tickets[1].ActualPriority != "" {
		t.Errorf("ActualPriority = %q, want empty", tickets[1].ActualPriority)
	}
}

func TestLoadCSV_ColumnOrderIndependent(t *testing.T) {
	t.Parallel()

	csv := `mrr,ticket_id,customer_name,subject,description,channel,timestamp
1200,TCK-007,Initech,Billing question,Need an invoice copy,portal,2025-01-07T08:00:00Z
`
	tickets, err := LoadCSV(writeTemp(t, csv))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if tickets[0].ID != "TCK-007" {
		t.Errorf("ID = %q, want %q", tickets[0].ID, "TCK-007")
	}
	if tickets[0].MRR != 1200 {
		t.Errorf("MRR = %v, want 1200", tickets[0].MRR)
	}
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	t.Parallel()

	csv := "ticket_id,subject\nTCK-001,hello\n"
	_, err := LoadCSV(writeTemp(t, csv))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "customer_name") {
		t.Errorf("error = %v, want mention of customer_name", err)
	}
}

func TestLoadCSV_InvalidMRR(t *testing.T) {
	t.Parallel()

	csv := `ticket_id,customer_name,subject,description,channel,mrr,timestamp
TCK-001,Acme,subj,desc,email,not-a-number,2025-01-06T09:12:00Z
`
	_, err := LoadCSV(writeTemp(t, csv))
	if err == nil {
		t.Fatal("expected error for invalid mrr")
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
