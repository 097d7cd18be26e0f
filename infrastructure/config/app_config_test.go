package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadAppConfigFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "LLM_MODEL", "LLM_TEMPERATURE", "RAG_KB_DIR", "TOAST_DEFAULT_DURATION", "REPORT_SANITIZE"} {
		t.Setenv(key, "")
	}

	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "google/gemma-3-12b", cfg.LLM.Model)
	assert.Equal(t, 0.0, cfg.LLM.Temperature)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)
	assert.Equal(t, "./knowledge_base", cfg.Knowledge.Dir)
	assert.Equal(t, 5, cfg.Knowledge.TopK)
	assert.Equal(t, 4*time.Second, cfg.Toast.DefaultDuration)
	assert.False(t, cfg.Report.Sanitize)
}

func TestLoadAppConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("LLM_TIMEOUT", "30s")
	t.Setenv("TOAST_DEFAULT_DURATION", "2500ms")
	t.Setenv("REPORT_SANITIZE", "yes")
	t.Setenv("DB_ENABLE_WAL", "off")

	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2500*time.Millisecond, cfg.Toast.DefaultDuration)
	assert.True(t, cfg.Report.Sanitize)
	assert.False(t, cfg.Database.EnableWAL)
}

func TestLoadAppConfigFromEnv_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "lots")
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("TOAST_DEFAULT_DURATION", "soon")

	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, 500, cfg.LLM.MaxTokens)
	assert.Equal(t, 5, cfg.Knowledge.TopK)
	assert.Equal(t, 4*time.Second, cfg.Toast.DefaultDuration)
}
