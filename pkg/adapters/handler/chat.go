package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
	"github.com/wadjakorntonsri/knowhub/pkg/stream"
)

type ChatHandler struct {
	service ports.ChatService
	logger  *zap.Logger
}

func NewChatHandler(service ports.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: logger}
}

const maxChatBody = 1 << 20

type ChatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// Chat relays the completion as chunked plain text, flushing every chunk.
// The status is only decided once the first chunk arrives, so an upstream
// failure before any output becomes a 502. Later failures just end the body.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBody)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorMessage(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := h.service.Stream(r.Context(), req.Messages)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	defer st.Cancel()

	first, ok := st.Next()
	if !ok {
		state, err := st.Wait()
		if state == stream.Failed {
			h.logger.Warn("Chat failed before first chunk", zap.Error(err))
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	for chunk := first; ok; chunk, ok = st.Next() {
		if _, err := io.WriteString(w, chunk); err != nil {
			st.Cancel()
			break
		}
		_ = rc.Flush()
	}

	if state, err := st.Wait(); state == stream.Failed {
		h.logger.Warn("Chat stream ended early", zap.Error(err))
	}
}
