package tui

import (
	"fmt"
	"strings"
	"time"
)

// FormatCount formats a number with K/M suffix
// Examples: 892 -> "892", 1234 -> "1.2K", 1500000 -> "1.5M"
func FormatCount(count int64) string {
	if count >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(count)/1000000)
	}
	if count >= 1000 {
		return fmt.Sprintf("%.1fK", float64(count)/1000)
	}
	return fmt.Sprintf("%d", count)
}

// FormatSize formats a byte count for humans
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatCost formats a dollar amount, keeping sub-cent precision
// Examples: 0.00003 -> "$0.00003", 1.5 -> "$1.50"
func FormatCost(usd float64) string {
	if usd > 0 && usd < 0.01 {
		return strings.TrimRight(fmt.Sprintf("$%.6f", usd), "0")
	}
	return fmt.Sprintf("$%.2f", usd)
}

// FormatDuration formats elapsed time as m:ss or h:mm:ss
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatDate formats a date as "Jan 15 14:05" style
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "---"
	}
	return t.Format("Jan 2 15:04")
}

// Truncate shortens s to max runes, ending in "..."
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
