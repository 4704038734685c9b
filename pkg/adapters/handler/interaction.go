package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

// InteractionHandler serves the session-scoped endpoints. Every route must be
// wrapped in SessionMiddleware.
type InteractionHandler struct {
	service ports.InteractionService
	logger  *zap.Logger
}

func NewInteractionHandler(service ports.InteractionService, logger *zap.Logger) *InteractionHandler {
	return &InteractionHandler{service: service, logger: logger}
}

type ReactRequest struct {
	Kind string `json:"kind"`
}

type CartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *InteractionHandler) React(w http.ResponseWriter, r *http.Request) {
	var req ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.service.React(r.Context(), SessionID(r.Context()), r.PathValue("id"), req.Kind)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *InteractionHandler) ReactionEvents(w http.ResponseWriter, r *http.Request) {
	events := h.service.ReactionEvents(r.Context(), SessionID(r.Context()))
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": events})
}

func (h *InteractionHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Cart(r.Context(), SessionID(r.Context())))
}

func (h *InteractionHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req CartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cart, err := h.service.AddToCart(r.Context(), SessionID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *InteractionHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req CartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), SessionID(r.Context()), r.PathValue("productID"), req.Quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *InteractionHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.RemoveFromCart(r.Context(), SessionID(r.Context()), r.PathValue("productID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *InteractionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Checkout(r.Context(), SessionID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *InteractionHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	ns, err := h.service.Notifications(r.Context(), SessionID(r.Context()), unreadOnly)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": ns})
}

func (h *InteractionHandler) ToggleNotification(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ToggleNotification(r.Context(), SessionID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *InteractionHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ns, err := h.service.MarkAllRead(r.Context(), SessionID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": ns})
}
