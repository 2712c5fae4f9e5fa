package kb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shopify := `{"webhook_setup":{"question":"How do I set up webhooks?","answer":"Go to Settings > Webhooks."}}`
	payments := `{"refunds":{"question":"How do refunds work?","answer":"Refunds post within 5 days."}}`
	if err := os.WriteFile(filepath.Join(dir, "shopify_faq.json"), []byte(shopify), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "payments_faq.json"), []byte(payments), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignore me"), 0o600); err != nil {
		t.Fatal(err)
	}

	kb, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(kb) != 2 {
		t.Fatalf("topics = %d, want 2", len(kb))
	}
	if kb["shopify"]["webhook_setup"].Question != "How do I set up webhooks?" {
		t.Errorf("unexpected article: %+v", kb["shopify"]["webhook_setup"])
	}
}

func TestLoad_MissingDir(t *testing.T) {
	t.Parallel()

	kb, err := Load(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(kb) != 0 {
		t.Errorf("expected empty knowledge base, got %d topics", len(kb))
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	kb := KnowledgeBase{
		"payments": {
			"refunds": {Question: "How do refunds work?"},
		},
		"shopify": {
			"webhooks": {Question: "How do I set up webhooks?"},
		},
	}

	s := kb.Summary()
	if !strings.Contains(s, "PAYMENTS FAQ:") {
		t.Errorf("summary missing payments topic:\n%s", s)
	}
	if !strings.Contains(s, "- How do I set up webhooks?") {
		t.Errorf("summary missing question line:\n%s", s)
	}
	// deterministic ordering: payments before shopify
	if strings.Index(s, "PAYMENTS") > strings.Index(s, "SHOPIFY") {
		t.Errorf("topics not sorted:\n%s", s)
	}
}

func TestSummary_Empty(t *testing.T) {
	t.Parallel()

	s := KnowledgeBase{}.Summary()
	if !strings.Contains(s, "No knowledge base articles") {
		t.Errorf("unexpected empty summary: %q", s)
	}
}
