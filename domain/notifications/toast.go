package notifications

import "time"

// Severity controls a toast's glyph and styling.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

var glyphs = map[Severity]string{
	SeveritySuccess: "✓",
	SeverityError:   "✕",
	SeverityInfo:    "ℹ",
	SeverityWarning: "⚠",
}

// Glyph returns the icon shown next to the message. Unknown severities
// get the info glyph.
func (s Severity) Glyph() string {
	if glyph, ok := glyphs[s]; ok {
		return glyph
	}
	return glyphs[SeverityInfo]
}

// IsKnown reports whether s is one of the four defined severities.
func (s Severity) IsKnown() bool {
	_, ok := glyphs[s]
	return ok
}

// Toast is a transient, auto-dismissing notification.
type Toast struct {
	ID        string
	Message   string
	Severity  Severity
	CreatedAt time.Time
	Duration  time.Duration

	// Exiting is set once the exit transition has started.
	Exiting bool
}

// Glyph returns the toast's severity glyph.
func (t Toast) Glyph() string {
	return t.Severity.Glyph()
}

// ExpiresAt is when the exit transition starts.
func (t Toast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.Duration)
}
