package main

import (
	"net/http"
	"time"

	"github.com/RichardoC/chat-thread/internal/api"
	"github.com/RichardoC/chat-thread/internal/chat"
	"github.com/RichardoC/chat-thread/internal/config"
	"github.com/RichardoC/chat-thread/internal/db"
	"github.com/RichardoC/chat-thread/internal/llm"
	"github.com/RichardoC/chat-thread/internal/speech"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	database, err := db.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("dbPath", cfg.DBPath))
	}
	defer database.Close()

	model, err := llm.New(
		cfg.LLMBaseURL,
		cfg.LLMToken,
		cfg.LLMModel,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
	)
	if err != nil {
		logger.Fatal("failed to initialize model client", zap.Error(err))
	}

	var counter chat.TokenCounter
	if cfg.ContextTokenBudget > 0 {
		counter, err = chat.NewTiktokenCounter()
		if err != nil {
			logger.Fatal("failed to initialize token counter", zap.Error(err))
		}
	}
	assembler := chat.NewAssembler(cfg.ContextTokenBudget, counter)

	chatService := chat.NewService(database, database, model, assembler, logger)

	recognizer := speech.NewHTTPRecognizer(
		cfg.SpeechEndpoint,
		cfg.SpeechAPIKey,
		cfg.SpeechModel,
		time.Duration(cfg.SpeechTimeoutSeconds)*time.Second,
	)
	transcriber := speech.NewTranscriber(recognizer, logger)

	handler := api.NewHandler(database, chatService, transcriber, logger)

	mux := http.NewServeMux()
	handler.Register(mux)

	logger.Info("Starting server", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
