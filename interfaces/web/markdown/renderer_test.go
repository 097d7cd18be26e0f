package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_EmptyInput_ReturnsEmptyString(t *testing.T) {
	assert.Equal(t, "", Render(""))
}

func TestRender_Headings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"level 1", "# Title", "<p><h1>Title</h1></p>"},
		{"level 2", "## Title", "<p><h2>Title</h2></p>"},
		{"level 3", "### Title", "<p><h3>Title</h3></p>"},
		{"level 3 is not captured as level 1", "### Deep\n# Top", "<p><h3>Deep</h3><br><h1>Top</h1></p>"},
		{"hash without space is literal", "#Title", "<p>#Title</p>"},
		{"heading only at line start", "a # b", "<p>a # b</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.input))
		})
	}
}

func TestRender_Emphasis(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bold", "**bold**", "<p><strong>bold</strong></p>"},
		{"italic", "*italic*", "<p><em>italic</em></p>"},
		{"bold is non-greedy", "**a** and **b**", "<p><strong>a</strong> and <strong>b</strong></p>"},
		{"italic inside bold", "**a*b*c**", "<p><strong>a<em>b</em>c</strong></p>"},
		{"emphasis does not cross lines", "*a\nb*", "<p>*a<br>b*</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.input))
		})
	}
}

func TestRender_OverlappingEmphasis_ProducesMalformedTags(t *testing.T) {
	// Passes are independent, so overlapping markers interleave tags.
	assert.Equal(t, "<p><em>a <strong>b</em> c</strong></p>", Render("*a **b* c**"))
}

func TestRender_InlineCode(t *testing.T) {
	assert.Equal(t, "<p><code>code</code></p>", Render("`code`"))
	assert.Equal(t, "<p>run <code>ls</code> then <code>pwd</code></p>", Render("run `ls` then `pwd`"))
}

func TestRender_CodeBlock_SpansLines(t *testing.T) {
	html := Render("```\nline1\nline2\n```")

	assert.Equal(t, "<p><pre><code><br>line1<br>line2<br></code></pre></p>", html)
	assert.Equal(t, 1, strings.Count(html, "<pre>"))
}

func TestRender_ListItems_WrappedInOneList(t *testing.T) {
	html := Render("- a\n- b")

	assert.Equal(t, "<p><ul><li>a</li><br><li>b</li></ul></p>", html)
	assert.Less(t, strings.Index(html, "<li>a</li>"), strings.Index(html, "<li>b</li>"))
}

func TestRender_SeparateLists_MergeIntoSingleContainer(t *testing.T) {
	html := Render("- a\n\ntext\n\n- b")

	assert.Equal(t, "<p><ul><li>a</li></p><p>text</p><p><li>b</li></ul></p>", html)
	assert.Equal(t, 1, strings.Count(html, "<ul>"))
}

func TestRender_Link_OpensInNewContext(t *testing.T) {
	assert.Equal(t, `<p><a href="http://y" target="_blank">x</a></p>`, Render("[x](http://y)"))
}

func TestRender_ParagraphsAndLineBreaks(t *testing.T) {
	assert.Equal(t, "<p><h1>Title</h1></p><p>Body<br>more</p>", Render("# Title\n\nBody\nmore"))
}

func TestRender_CarriageReturnEndsLine(t *testing.T) {
	assert.Equal(t, "<p><h1>T</h1>\r<br>x</p>", Render("# T\r\nx"))
	assert.Equal(t, "<p>a\r<h2>b</h2></p>", Render("a\r## b"))
}

func TestRender_DoesNotEscapeMarkup(t *testing.T) {
	// Known limitation: raw markup in a report passes through unchanged.
	assert.Equal(t, "<p><script>alert(1)</script> &amp;</p>", Render("<script>alert(1)</script> &amp;"))
}

func TestRender_FullReport(t *testing.T) {
	report := "# Threat Report\n\n## Summary\n**2** threats found in `access.log`.\n\n- SQLi from 10.0.0.5\n- Traversal from 203.0.113.45\n\nSee [ATT&CK](https://attack.mitre.org)."

	html := Render(report)

	assert.True(t, strings.HasPrefix(html, "<p><h1>Threat Report</h1></p><p><h2>Summary</h2><br>"))
	assert.Contains(t, html, "<strong>2</strong> threats found in <code>access.log</code>.")
	assert.Contains(t, html, "<ul><li>SQLi from 10.0.0.5</li><br><li>Traversal from 203.0.113.45</li></ul>")
	assert.Contains(t, html, `<a href="https://attack.mitre.org" target="_blank">ATT&CK</a>`)
	assert.True(t, strings.HasSuffix(html, "</p>"))
}

func TestRender_Deterministic(t *testing.T) {
	input := "# a\n- b\n*c*"
	assert.Equal(t, Render(input), Render(input))
}
