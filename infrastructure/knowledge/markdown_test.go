package knowledge

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/logging"
)

func TestMarkdownText(t *testing.T) {
	source := []byte("# SQL Injection\n\nBlock **UNION** probes, see [runbook](https://wiki.internal/sqli-runbook).\n\n```\niptables -A INPUT -s 10.0.0.5 -j DROP\n```\n\n- rotate `db_password`\n")

	out := markdownText(source)

	assert.Contains(t, out, "SQL Injection")
	assert.Contains(t, out, "UNION")
	assert.Contains(t, out, "Block UNION probes, see runbook.")
	assert.Contains(t, out, "iptables -A INPUT")
	assert.Contains(t, out, "db_password")
	assert.NotContains(t, out, "wiki.internal")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "#")
}

func TestMarkdownText_KeepsLinesAndBlocksApart(t *testing.T) {
	source := []byte("# Brute force\nRepeated *401* responses\nfrom one IP\n\n- lock the account\n- block the IP\n")

	out := markdownText(source)

	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	assert.Equal(t, []string{
		"Brute force",
		"Repeated 401 responses",
		"from one IP",
		"lock the account",
		"block the IP",
	}, lines, "raw output: %q", out)
}

func TestLoad_MarkdownRankedOnProseOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_links.md", "See [the guide](https://example.com/admin/passwd).")
	writeFile(t, dir, "b_admin.txt", "Admin panel access must come from the VPN.")
	base := Load(Config{Dir: dir, TopK: 1}, logging.Default())

	docs, err := base.Retrieve(context.Background(), "GET /admin", 1)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, filepath.Join(dir, "b_admin.txt"), docs[0].Source)
	assert.Contains(t, docs[0].Content, "VPN")
}
