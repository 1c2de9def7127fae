package tui

import (
	"testing"
	"time"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{892, "892"},
		{999, "999"},
		{1000, "1.0K"},
		{1234, "1.2K"},
		{12345, "12.3K"},
		{1000000, "1.0M"},
		{1500000, "1.5M"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatCount(tt.input)
			if result != tt.expected {
				t.Errorf("FormatCount(%d) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{512, "512 B"},
		{2048, "2 KB"},
		{10 * 1024 * 1024, "10.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.input); got != tt.expected {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "$0.00"},
		{0.00003, "$0.00003"},
		{0.0012, "$0.0012"},
		{0.25, "$0.25"},
		{1.5, "$1.50"},
	}

	for _, tt := range tests {
		if got := FormatCost(tt.input); got != tt.expected {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{0, "0:00"},
		{9 * time.Second, "0:09"},
		{75*time.Second + 400*time.Millisecond, "1:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.input); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		input    time.Time
		expected string
	}{
		{time.Time{}, "---"},
		{time.Date(2025, 1, 15, 9, 5, 0, 0, time.UTC), "Jan 15 09:05"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatDate(tt.input)
			if result != tt.expected {
				t.Errorf("FormatDate(%v) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("a longer sentence", 10); got != "a longe..." {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("héllo wörld", 8); got != "héllo..." {
		t.Errorf("Truncate() = %q", got)
	}
}
