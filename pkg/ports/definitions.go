package ports

import (
	"context"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/stream"
)

// CatalogProvider supplies the read-only seed collections. Get* methods
// return nil, nil when the id does not exist. Returned values are copies.
type CatalogProvider interface {
	ListItems(ctx context.Context) ([]domain.ContentItem, error)
	GetItem(ctx context.Context, id string) (*domain.ContentItem, error)
	ListAuthors(ctx context.Context) ([]domain.Author, error)
	GetAuthor(ctx context.Context, id string) (*domain.Author, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListNotifications(ctx context.Context) ([]domain.Notification, error)
	ListRewardTiers(ctx context.Context) ([]domain.RewardTier, error)
	Dump(ctx context.Context) (*domain.Catalog, error) // For export
}

// ChatProvider streams a completion for msgs through emit.
type ChatProvider interface {
	Name() string
	StreamChat(ctx context.Context, msgs []domain.ChatMessage, emit func(chunk string) error) error
}

// Pinner uploads JSON documents to content-addressed storage.
type Pinner interface {
	PinJSON(ctx context.Context, name string, content any) (string, error)
	GatewayURL(hash string) string
}

type ItemQuery struct {
	Category string
	Tag      string
	Type     string
	AuthorID string
	Year     string
	Month    string
	Text     string
}

// CatalogService defines the read side: filtering, lookups and aggregates.
type CatalogService interface {
	ListItems(ctx context.Context, q ItemQuery) ([]domain.ContentItem, error)
	GetItem(ctx context.Context, id string) (*domain.ContentItem, error)
	AuthorArchive(ctx context.Context, authorID, year, month string) (*domain.AuthorArchive, error)
	Leaderboard(ctx context.Context, metric string, top int) ([]domain.LeaderboardEntry, error)
	ListProducts(ctx context.Context, kind, search string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListRewardTiers(ctx context.Context) ([]domain.RewardTier, error)
}

// InteractionService applies session-local mutations.
type InteractionService interface {
	React(ctx context.Context, sessionID, itemID, kind string) (*domain.ReactionResult, error)
	// ApplySessionCounts replaces each item's reaction counts with the session view.
	ApplySessionCounts(ctx context.Context, sessionID string, items []domain.ContentItem) []domain.ContentItem
	ReactionEvents(ctx context.Context, sessionID string) []domain.ReactionEvent

	Cart(ctx context.Context, sessionID string) domain.Cart
	AddToCart(ctx context.Context, sessionID, productID string, qty int) (domain.Cart, error)
	SetQuantity(ctx context.Context, sessionID, productID string, qty int) (domain.Cart, error)
	RemoveFromCart(ctx context.Context, sessionID, productID string) (domain.Cart, error)
	Checkout(ctx context.Context, sessionID string) (*domain.Receipt, error)

	Notifications(ctx context.Context, sessionID string, unreadOnly bool) ([]domain.Notification, error)
	ToggleNotification(ctx context.Context, sessionID, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, sessionID string) ([]domain.Notification, error)
}

type ChatService interface {
	Stream(ctx context.Context, msgs []domain.ChatMessage) (*stream.Stream, error)
}

type PublishService interface {
	Publish(ctx context.Context, sub domain.FormSubmission) (*domain.PinResult, error)
}
