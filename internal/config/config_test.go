package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8100", cfg.ListenAddr)
	assert.Equal(t, "chat-thread.db", cfg.DBPath)
	assert.Equal(t, "http://localhost:11434/v1/", cfg.LLMBaseURL)
	assert.Equal(t, 30, cfg.LLMTimeoutSeconds)
	assert.Equal(t, 0, cfg.ContextTokenBudget)
	assert.Equal(t, "whisper-1", cfg.SpeechModel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHAT_LISTEN_ADDR", ":9999")
	t.Setenv("CHAT_LLM_TIMEOUT_SECONDS", "5")
	t.Setenv("CHAT_CONTEXT_TOKEN_BUDGET", "2048")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.LLMTimeoutSeconds)
	assert.Equal(t, 2048, cfg.ContextTokenBudget)
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("CHAT_LLM_TIMEOUT_SECONDS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 30, cfg.LLMTimeoutSeconds)
}
