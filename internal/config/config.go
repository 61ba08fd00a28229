package config

import (
	"os"
	"strconv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	ListenAddr string
	DBPath     string

	LLMBaseURL        string
	LLMModel          string
	LLMToken          string
	LLMTimeoutSeconds int

	// ContextTokenBudget bounds the rendered conversation context; 0
	// replays the full log on every call.
	ContextTokenBudget int

	SpeechEndpoint       string
	SpeechModel          string
	SpeechAPIKey         string
	SpeechTimeoutSeconds int
}

// Load reads configuration from environment variables, falling back to
// defaults that match a local ollama + whisper setup.
func Load() Config {
	return Config{
		ListenAddr:           envOrDefault("CHAT_LISTEN_ADDR", ":8100"),
		DBPath:               envOrDefault("CHAT_DB_PATH", "chat-thread.db"),
		LLMBaseURL:           envOrDefault("CHAT_LLM_BASE_URL", "http://localhost:11434/v1/"),
		LLMModel:             envOrDefault("CHAT_LLM_MODEL", "llama3.1:8b"),
		LLMToken:             os.Getenv("OPENAI_API_KEY"),
		LLMTimeoutSeconds:    envIntOrDefault("CHAT_LLM_TIMEOUT_SECONDS", 30),
		ContextTokenBudget:   envIntOrDefault("CHAT_CONTEXT_TOKEN_BUDGET", 0),
		SpeechEndpoint:       envOrDefault("CHAT_SPEECH_ENDPOINT", "http://localhost:9000/v1/audio/transcriptions"),
		SpeechModel:          envOrDefault("CHAT_SPEECH_MODEL", "whisper-1"),
		SpeechAPIKey:         os.Getenv("CHAT_SPEECH_API_KEY"),
		SpeechTimeoutSeconds: envIntOrDefault("CHAT_SPEECH_TIMEOUT_SECONDS", 60),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
