// Package markdown turns analysis report text into an HTML fragment.
//
// The renderer is a fixed, ordered list of regular-expression passes, not a
// markdown parser. Later passes see the output of earlier ones, so the
// order of the pipeline is part of the output format and must not change.
//
// Input is not escaped. Angle brackets and ampersands in the report reach
// the browser as markup. Callers that cannot trust report content should
// sanitize the rendered fragment (see presenters.ReportSanitizer).
package markdown

import (
	"regexp"
	"strings"
)

// A line ends at \n, \r, U+2028 or U+2029. Single-line patterns use
// lineChar instead of "." and lineStart instead of a bare "^" so that all
// four terminators split lines the same way.
const (
	lineChar  = `[^\n\r\x{2028}\x{2029}]`
	lineStart = `(?m)(^|[\r\x{2028}\x{2029}])`
)

// pass is one step of the rendering pipeline.
type pass func(string) string

// substitution replaces every match of pattern with replacement.
type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

func (s substitution) apply(text string) string {
	return s.pattern.ReplaceAllString(text, s.replacement)
}

var (
	heading3   = substitution{regexp.MustCompile(lineStart + `### (` + lineChar + `*)`), `${1}<h3>${2}</h3>`}
	heading2   = substitution{regexp.MustCompile(lineStart + `## (` + lineChar + `*)`), `${1}<h2>${2}</h2>`}
	heading1   = substitution{regexp.MustCompile(lineStart + `# (` + lineChar + `*)`), `${1}<h1>${2}</h1>`}
	bold       = substitution{regexp.MustCompile(`\*\*(` + lineChar + `+?)\*\*`), `<strong>${1}</strong>`}
	italic     = substitution{regexp.MustCompile(`\*(` + lineChar + `+?)\*`), `<em>${1}</em>`}
	codeBlock  = substitution{regexp.MustCompile("(?s)```(.*?)```"), `<pre><code>${1}</code></pre>`}
	inlineCode = substitution{regexp.MustCompile("`(" + lineChar + "+?)`"), `<code>${1}</code>`}
	listItem   = substitution{regexp.MustCompile(lineStart + `- (` + lineChar + `+)`), `${1}<li>${2}</li>`}
	link       = substitution{regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`), `<a href="${2}" target="_blank">${1}</a>`}

	listRun = regexp.MustCompile(`(?s)<li>.*</li>`)
)

// pipeline is applied in order. Headings run longest prefix first so that
// "### x" is never captured as a level-1 heading; bold runs before italic
// so the double markers are consumed first.
var pipeline = []pass{
	heading3.apply,
	heading2.apply,
	heading1.apply,
	bold.apply,
	italic.apply,
	codeBlock.apply,
	inlineCode.apply,
	listItem.apply,
	link.apply,
	lineBreaks,
	wrapList,
	wrapParagraph,
}

// Render converts report text to HTML. It is total over strings and has no
// side effects; empty input renders to the empty string.
func Render(text string) string {
	if text == "" {
		return ""
	}
	html := text
	for _, step := range pipeline {
		html = step(html)
	}
	return html
}

func lineBreaks(text string) string {
	text = strings.ReplaceAll(text, "\n\n", "</p><p>")
	return strings.ReplaceAll(text, "\n", "<br>")
}

// wrapList wraps everything from the first <li> to the last </li> in a
// single <ul>. Separate lists in one report end up in the same container.
func wrapList(text string) string {
	loc := listRun.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + "<ul>" + text[loc[0]:loc[1]] + "</ul>" + text[loc[1]:]
}

func wrapParagraph(text string) string {
	return "<p>" + text + "</p>"
}
