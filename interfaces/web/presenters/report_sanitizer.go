package presenters

import "github.com/microcosm-cc/bluemonday"

// ReportSanitizer strips unsafe markup from rendered reports. The markdown
// renderer does not escape its input, so model output containing raw HTML
// passes straight through unless a sanitizer is applied.
type ReportSanitizer struct {
	policy *bluemonday.Policy
}

// NewReportSanitizer creates a sanitizer allowing the elements the
// renderer emits. Absolute links open in a new tab.
func NewReportSanitizer() *ReportSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &ReportSanitizer{policy: policy}
}

// Sanitize returns html with disallowed elements and attributes removed.
func (s *ReportSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
