// Package analysis holds the log triage rules and the analysis run model.
package analysis

import "strings"

// NoSuspiciousActivity replaces the cleaned logs when nothing matched.
const NoSuspiciousActivity = "No suspicious activity detected."

// QueryPrefix starts every knowledge base query.
const QueryPrefix = "Vulnerability analysis and remediation for: "

// maxQueryLines caps how many distinct suspicious lines feed the query.
const maxQueryLines = 5

// SuspiciousPatterns mark a log line for analysis: 4xx/5xx status codes,
// SQL keywords, traversal and admin probes. Matching is case-sensitive.
var SuspiciousPatterns = []string{" 40", " 50", "SELECT", "UNION", "etc/passwd", "admin", "../"}

// Triage is the preprocessor output.
type Triage struct {
	Lines       []string
	CleanedLogs string
}

// SuspiciousCount is the number of lines flagged.
func (t Triage) SuspiciousCount() int {
	return len(t.Lines)
}

// Preprocess keeps the trimmed lines of raw that contain a suspicious
// pattern, in input order.
func Preprocess(raw string) Triage {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if isSuspicious(line) {
			lines = append(lines, strings.TrimSpace(line))
		}
	}

	cleaned := strings.Join(lines, "\n")
	if cleaned == "" {
		cleaned = NoSuspiciousActivity
	}
	return Triage{Lines: lines, CleanedLogs: cleaned}
}

func isSuspicious(line string) bool {
	for _, pattern := range SuspiciousPatterns {
		if strings.Contains(line, pattern) {
			return true
		}
	}
	return false
}

// RetrievalQuery builds the knowledge base query from up to five distinct
// non-empty lines of the cleaned logs, in first-seen order.
func RetrievalQuery(cleanedLogs string) string {
	seen := make(map[string]struct{})
	var unique []string
	for _, line := range strings.Split(cleanedLogs, "\n") {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		unique = append(unique, line)
		if len(unique) == maxQueryLines {
			break
		}
	}
	return QueryPrefix + strings.Join(unique, " ")
}
