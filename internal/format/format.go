// Package format holds the display math shared by every listing surface:
// funding progress percentages and Indian-numbering currency strings.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	crore = 10_000_000
	lakh  = 100_000
)

// Progress reports how much of target the committed amount covers, as an
// integer percentage clamped to [0,100]. A missing, zero or negative target
// yields 0; the committed amount is never trusted to stay under the target.
func Progress(committed, target int64) int {
	if target <= 0 {
		return 0
	}
	ratio := float64(committed) / float64(target)
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return int(math.Round(ratio * 100))
}

// Currency renders a rupee amount with Indian scale units: crore for
// 1,00,00,000 and above, lakh down to 1,00,000, thousands down to 1,000,
// plain grouped digits below that. Negative input falls back to "₹0".
func Currency(amount int64) string {
	switch {
	case amount <= 0:
		return "₹0"
	case amount >= crore:
		return "₹" + trimAmount(float64(amount)/crore) + "Cr"
	case amount >= lakh:
		return "₹" + trimAmount(float64(amount)/lakh) + "L"
	case amount >= 1_000:
		return "₹" + trimAmount(float64(amount)/1_000) + "K"
	default:
		return "₹" + groupIndian(fmt.Sprintf("%d", amount))
	}
}

func trimAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// groupIndian inserts separators in the Indian pattern: the last three
// digits form one group, every two digits before that another
// (12,34,56,789).
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	parts := []string{}
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	parts = append(parts, tail)
	return strings.Join(parts, ",")
}

// FileSize renders a byte count for document listings.
func FileSize(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// DaysLeft counts whole days from now until the fundraising window closes,
// never negative. A project without a window reports 0.
func DaysLeft(now time.Time, end *time.Time) int {
	if end == nil || !end.After(now) {
		return 0
	}
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}
