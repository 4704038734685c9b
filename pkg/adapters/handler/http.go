package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

// HTTPHandler serves the read-only catalog endpoints. Item reads show the
// caller's session counters when a session is in the request context.
type HTTPHandler struct {
	service      ports.CatalogService
	interactions ports.InteractionService
	logger       *zap.Logger
}

func NewHTTPHandler(service ports.CatalogService, interactions ports.InteractionService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, interactions: interactions, logger: logger}
}

// List Items
func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.service.ListItems(r.Context(), ports.ItemQuery{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Type:     q.Get("type"),
		AuthorID: q.Get("author"),
		Year:     q.Get("year"),
		Month:    q.Get("month"),
		Text:     q.Get("q"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	items = h.interactions.ApplySessionCounts(r.Context(), SessionID(r.Context()), items)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  items,
		"total": len(items),
	})
}

// Get Item
func (h *HTTPHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	viewed := h.interactions.ApplySessionCounts(r.Context(), SessionID(r.Context()), []domain.ContentItem{*item})
	writeJSON(w, http.StatusOK, viewed[0])
}

// AuthorArchive groups an author's items by month, optionally narrowed
// with year and month query parameters.
func (h *HTTPHandler) AuthorArchive(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	archive, err := h.service.AuthorArchive(r.Context(), r.PathValue("id"), q.Get("year"), q.Get("month"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, archive)
}

// Leaderboard
func (h *HTTPHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	top := 0
	if s := r.URL.Query().Get("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, h.logger, &domain.ParseError{Field: "top", Value: s, Err: err})
			return
		}
		top = n
	}

	entries, err := h.service.Leaderboard(r.Context(), r.URL.Query().Get("metric"), top)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": entries})
}

// List Products
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("kind"), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  products,
		"total": len(products),
	})
}

// Get Product
func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// List Reward Tiers
func (h *HTTPHandler) ListRewards(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.service.ListRewardTiers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": tiers})
}
