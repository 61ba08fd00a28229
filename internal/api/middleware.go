package api

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// withRequestID tags every request with a uuid so log lines from one
// exchange can be correlated.
func (h *Handler) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		h.logger.Debug("request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		next(w, r)
	}
}
