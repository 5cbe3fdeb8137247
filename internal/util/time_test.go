package util

import (
	"testing"
	"time"
)

func TestFormatTime_Nil(t *testing.T) {
	if got := FormatTime(nil); got != "-" {
		t.Errorf("FormatTime(nil) = %q", got)
	}
	if got := FormatTime(&time.Time{}); got != "-" {
		t.Errorf("FormatTime(zero) = %q", got)
	}
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		at       time.Time
		expected string
	}{
		{time.Time{}, "never"},
		{now, "just now"},
		{now.Add(-42 * time.Second), "42s ago"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
	}
	for _, tt := range tests {
		if got := FormatAge(tt.at, now); got != tt.expected {
			t.Errorf("FormatAge(%v) = %q, want %q", tt.at, got, tt.expected)
		}
	}
}
