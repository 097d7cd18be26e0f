package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeverity_Glyph(t *testing.T) {
	tests := []struct {
		severity Severity
		expected string
	}{
		{SeveritySuccess, "✓"},
		{SeverityError, "✕"},
		{SeverityInfo, "ℹ"},
		{SeverityWarning, "⚠"},
		{Severity("critical"), "ℹ"},
		{Severity(""), "ℹ"},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.Glyph())
		})
	}
}

func TestSeverity_IsKnown(t *testing.T) {
	assert.True(t, SeverityWarning.IsKnown())
	assert.False(t, Severity("critical").IsKnown())
}

func TestToast_ExpiresAt(t *testing.T) {
	created := time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)
	toast := Toast{CreatedAt: created, Duration: 4 * time.Second}

	assert.Equal(t, created.Add(4*time.Second), toast.ExpiresAt())
}
