package normalize

import "testing"

func TestDate_Representations(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Day-first numeric
		{"29/01/2024", "2024-01-29"},
		{"29-01-2024", "2024-01-29"},
		{"5/3/2023", "2023-03-05"},
		// Indonesian month names
		{"29 Januari 2024", "2024-01-29"},
		{"29 januari 2024", "2024-01-29"},
		{"1 Agustus 2023", "2023-08-01"},
		{"17 Agt 2023", "2023-08-17"},
		{"31 Desember 2024", "2024-12-31"},
		// CJK
		{"2024年1月29日", "2024-01-29"},
		{"2023年12月5日", "2023-12-05"},
		// Spreadsheet serial (45320 = 2024-01-29)
		{"45320", "2024-01-29"},
		{"45320.0", "2024-01-29"},
		// ISO pass-through
		{"2024-01-29", "2024-01-29"},
		{"2024-01-29 00:00:00", "2024-01-29"},
	}

	for _, tc := range tests {
		got := Date(tc.input)
		if got != tc.expected {
			t.Errorf("Date(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestDate_AbsentNeverDefaulted(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"not-a-date",
		"29 Zmbrtx 2024",
		"32/01/2024", // invalid day
		"29/13/2024", // invalid month
		"31/02/2024", // rolls over, rejected
		"1234",       // serial out of plausible range
		"9999999",
	}

	for _, tc := range tests {
		if got := Date(tc); got != "" {
			t.Errorf("Date(%q) = %q, want empty", tc, got)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	tests := []struct {
		date     string
		override string
		category string
		expected string
	}{
		{"2024-01-29", "", "", "January 2024"},
		{"2024-01-29", "auto", "", "January 2024"},
		{"2024-01-29", "February 2024", "", "February 2024"},
		{"2024-01-29", "", "Domestic", "January 2024-Domestic"},
		{"", "", "", ""},
		{"", "March 2024", "", "March 2024"},
	}

	for _, tc := range tests {
		got := PeriodLabel(tc.date, tc.override, tc.category)
		if got != tc.expected {
			t.Errorf("PeriodLabel(%q, %q, %q) = %q, want %q", tc.date, tc.override, tc.category, got, tc.expected)
		}
	}
}
