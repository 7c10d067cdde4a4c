package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"munifund/internal/portfolio"
)

func TestFormatAlert(t *testing.T) {
	msg := formatAlert(portfolio.Alert{
		ProjectRef:    "MUN-2024-001",
		Title:         "Ring Road Phase II",
		CommitmentGap: 250_000_000,
		PrevCommitted: 25_000_000,
		NewCommitted:  150_000,
		PrevProgress:  10,
		NewProgress:   12,
	})

	assert.Contains(t, msg, "Ring Road Phase II")
	assert.Contains(t, msg, "MUN-2024-001")
	assert.Contains(t, msg, "₹2.50Cr → ₹1.50L")
	assert.Contains(t, msg, "10% → 12%")
	assert.Contains(t, msg, "₹25.00Cr")
}

func TestSplitMessage(t *testing.T) {
	short := splitMessage("hello", 4096)
	assert.Equal(t, []string{"hello"}, short)

	long := strings.Repeat("x", 9000)
	parts := splitMessage(long, 4096)
	assert.Len(t, parts, 3)
	assert.Len(t, parts[0], 4096)
}
