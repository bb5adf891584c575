package handlers

import (
	"testing"
	"time"
)

func TestExtractYear(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		question string
		want     int
	}{
		{"explicit year", "what was the income in 2023?", 2023},
		{"year in the nineties", "show the balance for 1998", 1998},
		{"no year defaults to current", "how much did we collect?", 2025},
		{"number that is not a year", "balance for family 123", 2025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractYear(tt.question, now); got != tt.want {
				t.Errorf("extractYear(%q) = %d, want %d", tt.question, got, tt.want)
			}
		})
	}
}

func TestExtractTopic(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"income keyword", "total income for 2024", "income"},
		{"payment keyword", "how many payments came in", "income"},
		{"expense keyword", "what were the expenses", "expenses"},
		{"event keyword", "event payouts this year", "expenses"},
		{"member keyword", "member count per plan", "members"},
		{"fallback", "how are we doing", "balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTopic(tt.question); got != tt.want {
				t.Errorf("extractTopic(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}
