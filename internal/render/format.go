package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Bytes formats n with binary units ("1.5 GiB").
func Bytes(n uint64) string {
	return humanize.IBytes(n)
}

// Rate formats a bytes-per-second value.
func Rate(bps float64) string {
	if bps < 0 {
		bps = 0
	}
	return humanize.IBytes(uint64(bps)) + "/s"
}

// Duration formats d as "3d 4h", "2h 05m" or "12m".
func Duration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	d = d.Round(time.Minute)
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	mins := int(d/time.Minute) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %02dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// truncate shortens s to at most n display cells, marking the cut with "…".
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// pad left-aligns s in a field of n cells, truncating if needed.
func pad(s string, n int) string {
	s = truncate(s, n)
	return s + strings.Repeat(" ", n-len([]rune(s)))
}

// padLeft right-aligns s in a field of n cells.
func padLeft(s string, n int) string {
	s = truncate(s, n)
	return strings.Repeat(" ", n-len([]rune(s))) + s
}
