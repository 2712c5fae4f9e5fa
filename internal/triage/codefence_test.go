package triage

import "testing"

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"risk_score": 7}`, `{"risk_score": 7}`},
		{"json fence", "```json\n{\"risk_score\": 7}\n```", `{"risk_score": 7}`},
		{"plain fence", "```\n{\"risk_score\": 7}\n```", `{"risk_score": 7}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"not json at all", "hello", "hello"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := stripCodeFence(tc.in); got != tc.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
