package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsPanel_RendersCountersAndEscapesModel(t *testing.T) {
	// Arrange
	view := StatsView{LogsAnalyzed: 12, ThreatsDetected: 3, KnowledgeDocuments: 4, Model: `<gpt>`}
	var buf strings.Builder

	// Act
	require.NoError(t, StatsPanel(view).Render(context.Background(), &buf))
	html := buf.String()

	// Assert
	assert.True(t, strings.HasPrefix(html, `<section id="stats"`))
	assert.Contains(t, html, `<span class="stat-value" id="logs-analyzed">12</span>`)
	assert.Contains(t, html, `<span class="stat-value" id="threats-detected">3</span>`)
	assert.Contains(t, html, `<span class="stat-value">4</span>`)
	assert.Contains(t, html, `&lt;gpt&gt;`)
	assert.NotContains(t, html, "\n")
}

func TestAnalyzerPage_WrapsBodyInLayout(t *testing.T) {
	// Arrange
	view := AnalyzerPageView{Title: "Sentinel", Stats: StatsView{LogsAnalyzed: 7}}
	var buf strings.Builder

	// Act
	require.NoError(t, AnalyzerPage(view).Render(context.Background(), &buf))
	html := buf.String()

	// Assert
	assert.True(t, strings.HasPrefix(strings.ToLower(html), "<!doctype html>"))
	assert.Contains(t, html, "<title>Sentinel</title>")
	assert.Contains(t, html, "<h1>Sentinel</h1>")
	assert.Contains(t, html, `id="logs-analyzed">7<`)
	assert.Less(t, strings.Index(html, `id="stats"`), strings.Index(html, `id="toast-container"`))
	assert.True(t, strings.HasSuffix(html, "</body></html>"))
}
