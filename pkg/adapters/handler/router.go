package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/config"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	catalog ports.CatalogService,
	interactions ports.InteractionService,
	chat ports.ChatService,
	publish ports.PublishService,
) http.Handler {
	// Initialize Handlers
	h := NewHTTPHandler(catalog, interactions, logger)
	ih := NewInteractionHandler(interactions, logger)
	chh := NewChatHandler(chat, logger)
	fh := NewFormsHandler(publish, logger)

	// Initialize Middleware
	mw := NewMiddleware(cfg, logger)
	session := func(fn http.HandlerFunc) http.Handler {
		return mw.SessionMiddleware(fn)
	}

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.Handle("GET /api/v1/items", mw.OptionalSession(http.HandlerFunc(h.ListItems)))
	mux.Handle("GET /api/v1/items/{id}", mw.OptionalSession(http.HandlerFunc(h.GetItem)))
	mux.HandleFunc("GET /api/v1/authors/{id}/archive", h.AuthorArchive)
	mux.HandleFunc("GET /api/v1/leaderboard", h.Leaderboard)
	mux.HandleFunc("GET /api/v1/products", h.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/v1/rewards", h.ListRewards)
	mux.HandleFunc("POST /api/chat", chh.Chat)
	mux.HandleFunc("POST /api/forms-ipfs", fh.Submit)

	// Session Routes
	mux.Handle("POST /api/v1/items/{id}/reactions", session(ih.React))
	mux.Handle("GET /api/v1/reactions/events", session(ih.ReactionEvents))
	mux.Handle("GET /api/v1/cart", session(ih.GetCart))
	mux.Handle("POST /api/v1/cart", session(ih.AddToCart))
	mux.Handle("POST /api/v1/cart/checkout", session(ih.Checkout))
	mux.Handle("PUT /api/v1/cart/{productID}", session(ih.SetQuantity))
	mux.Handle("DELETE /api/v1/cart/{productID}", session(ih.RemoveFromCart))
	mux.Handle("GET /api/v1/notifications", session(ih.Notifications))
	mux.Handle("POST /api/v1/notifications/read-all", session(ih.MarkAllRead))
	mux.Handle("POST /api/v1/notifications/{id}/toggle", session(ih.ToggleNotification))

	return mw.RequestLogger(mux)
}
