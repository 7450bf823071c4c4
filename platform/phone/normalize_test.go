package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"empty", "   ", "NL", ""},
		{"national dutch mobile", " 06 12345678 ", "NL", "+31612345678"},
		{"already international", "+31 6 12345678", "IN", "+31612345678"},
		{"unparseable stays trimmed", "  not-a-number ", "NL", "not-a-number"},
		{"no region keeps digits", " 9990001111 ", "", "9990001111"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input, tc.region); got != tc.want {
				t.Fatalf("NormalizeE164(%q, %q) = %q, want %q", tc.input, tc.region, got, tc.want)
			}
		})
	}
}
