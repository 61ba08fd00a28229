package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/RichardoC/chat-thread/internal/chat"
	"github.com/RichardoC/chat-thread/internal/db"
	"github.com/RichardoC/chat-thread/internal/models"
	"github.com/RichardoC/chat-thread/internal/speech"
	"go.uber.org/zap"
)

const maxAudioUploadBytes = 16 << 20

type Handler struct {
	db          *db.Database
	chat        *chat.Service
	transcriber *speech.Transcriber
	logger      *zap.Logger
}

func NewHandler(database *db.Database, chatService *chat.Service, transcriber *speech.Transcriber, logger *zap.Logger) *Handler {
	return &Handler{
		db:          database,
		chat:        chatService,
		transcriber: transcriber,
		logger:      logger,
	}
}

// Register wires every route onto the mux with request-id logging.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/signup", h.withRequestID(h.Signup))
	mux.HandleFunc("/api/login", h.withRequestID(h.Login))
	mux.HandleFunc("/api/chat", h.withRequestID(h.Chat))
	mux.HandleFunc("/api/sessions", h.withRequestID(h.Sessions))
	mux.HandleFunc("/api/session", h.withRequestID(h.Session))
	mux.HandleFunc("/api/transcribe", h.withRequestID(h.Transcribe))
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChatRequest struct {
	Username  string `json:"username"`
	SessionID int64  `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	acct, err := h.db.CreateAccount(r.Context(), req.Username, req.Password)
	if errors.Is(err, db.ErrUsernameTaken) {
		http.Error(w, "Username already registered", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("Failed to create account", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]any{"message": "user created", "username": acct.Username})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acct, ok, err := h.db.FindAccountByUsername(r.Context(), req.Username)
	if err != nil {
		h.logger.Error("Failed to look up account", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	// Absent user and wrong password collapse to one outcome.
	if !ok || !h.db.VerifyPassword(acct, req.Password) {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	h.writeJSON(w, map[string]any{"message": "login successful", "username": acct.Username})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acct, ok := h.account(w, r, req.Username)
	if !ok {
		return
	}

	view, err := h.chat.Advance(r.Context(), acct.ID, req.SessionID, req.Message)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	h.writeJSON(w, view)
}

// Sessions serves the collection: list on GET, delete-all on DELETE.
func (h *Handler) Sessions(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.account(w, r, r.URL.Query().Get("username"))
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		summaries, err := h.chat.ListSessions(r.Context(), acct.ID)
		if err != nil {
			h.logger.Error("Failed to list sessions", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, summaries)

	case http.MethodDelete:
		n, err := h.chat.DeleteAllSessions(r.Context(), acct.ID)
		if err != nil {
			h.logger.Error("Failed to delete sessions", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]int64{"deleted": n})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Session serves one thread: fetch on GET, delete on DELETE.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.account(w, r, r.URL.Query().Get("username"))
	if !ok {
		return
	}

	sessionID, err := strconv.ParseInt(r.URL.Query().Get("session_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		view, err := h.chat.GetSession(r.Context(), acct.ID, sessionID)
		if err != nil {
			h.writeChatError(w, err)
			return
		}
		h.writeJSON(w, view)

	case http.MethodDelete:
		n, err := h.chat.DeleteSession(r.Context(), acct.ID, sessionID)
		if err != nil {
			h.logger.Error("Failed to delete session", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]int64{"deleted": n})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxAudioUploadBytes))
	if err != nil {
		http.Error(w, "Failed to read audio payload", http.StatusBadRequest)
		return
	}

	text, err := h.transcriber.Transcribe(r.Context(), data)
	if errors.Is(err, speech.ErrTranscription) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		h.logger.Error("Failed to transcribe audio", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{"text": text})
}

// account resolves the username on a request and writes the error
// response itself when that fails.
func (h *Handler) account(w http.ResponseWriter, r *http.Request, username string) (*models.Account, bool) {
	if username == "" {
		http.Error(w, "Username is required", http.StatusBadRequest)
		return nil, false
	}
	acct, ok, err := h.db.FindAccountByUsername(r.Context(), username)
	if err != nil {
		h.logger.Error("Failed to look up account", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	if !ok {
		http.Error(w, "User not found", http.StatusNotFound)
		return nil, false
	}
	return acct, true
}

func (h *Handler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrAccountNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, chat.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, chat.ErrModelInvocation):
		h.logger.Error("Model invocation failed", zap.Error(err))
		http.Error(w, "Model unavailable", http.StatusBadGateway)
	case errors.Is(err, models.ErrMalformedLog):
		h.logger.Error("Stored log is corrupt", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	default:
		h.logger.Error("Chat operation failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
