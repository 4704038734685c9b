package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/core/ledger"
	"github.com/wadjakorntonsri/knowhub/pkg/core/query"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

type InteractionService struct {
	repo     ports.CatalogProvider
	sessions *ledger.Sessions
	logger   *zap.Logger
}

func NewInteractionService(repo ports.CatalogProvider, sessions *ledger.Sessions, logger *zap.Logger) *InteractionService {
	return &InteractionService{repo: repo, sessions: sessions, logger: logger}
}

var _ ports.InteractionService = (*InteractionService)(nil)

func (s *InteractionService) React(ctx context.Context, sessionID, itemID, kind string) (*domain.ReactionResult, error) {
	k, err := domain.ParseReactionKind(kind)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.NotFoundError{Kind: "content item", ID: itemID}
	}

	counts, ev := s.sessions.Get(sessionID).ApplyReaction(item.ID, k, item.ReactionCounts)
	s.logger.Debug("Reaction applied",
		zap.String("session", sessionID),
		zap.String("item", item.ID),
		zap.String("kind", string(k)),
		zap.Int64("count", counts[k]))

	return &domain.ReactionResult{
		ItemID: item.ID,
		Kind:   k,
		Count:  counts[k],
		Counts: counts,
		Event:  ev,
	}, nil
}

func (s *InteractionService) ApplySessionCounts(ctx context.Context, sessionID string, items []domain.ContentItem) []domain.ContentItem {
	if sessionID == "" {
		return items
	}
	l, ok := s.sessions.Lookup(sessionID)
	if !ok {
		return items
	}
	for i := range items {
		items[i].ReactionCounts = l.Counts(items[i].ID, items[i].ReactionCounts)
	}
	return items
}

func (s *InteractionService) ReactionEvents(ctx context.Context, sessionID string) []domain.ReactionEvent {
	return s.sessions.Get(sessionID).Events()
}

func (s *InteractionService) Cart(ctx context.Context, sessionID string) domain.Cart {
	return s.sessions.Get(sessionID).Cart()
}

func (s *InteractionService) AddToCart(ctx context.Context, sessionID, productID string, qty int) (domain.Cart, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}
	if p == nil {
		return domain.Cart{}, &domain.NotFoundError{Kind: "product", ID: productID}
	}
	l := s.sessions.Get(sessionID)
	l.AddToCart(*p, qty)
	return l.Cart(), nil
}

func (s *InteractionService) SetQuantity(ctx context.Context, sessionID, productID string, qty int) (domain.Cart, error) {
	l := s.sessions.Get(sessionID)
	if _, err := l.SetQuantity(productID, qty); err != nil {
		return domain.Cart{}, err
	}
	return l.Cart(), nil
}

func (s *InteractionService) RemoveFromCart(ctx context.Context, sessionID, productID string) (domain.Cart, error) {
	l := s.sessions.Get(sessionID)
	if err := l.RemoveFromCart(productID); err != nil {
		return domain.Cart{}, err
	}
	return l.Cart(), nil
}

func (s *InteractionService) Checkout(ctx context.Context, sessionID string) (*domain.Receipt, error) {
	receipt, err := s.sessions.Get(sessionID).Checkout()
	if err != nil {
		return nil, err
	}
	s.logger.Info("Simulated checkout",
		zap.String("session", sessionID),
		zap.String("receipt", receipt.ID),
		zap.Int64("total", receipt.Total))
	return &receipt, nil
}

func (s *InteractionService) Notifications(ctx context.Context, sessionID string, unreadOnly bool) ([]domain.Notification, error) {
	seed, err := s.repo.ListNotifications(ctx)
	if err != nil {
		return nil, err
	}
	view := s.sessions.Get(sessionID).Overlay(seed)
	if unreadOnly {
		view = query.Filter(view, query.Unread())
	}
	return view, nil
}

func (s *InteractionService) ToggleNotification(ctx context.Context, sessionID, id string) (*domain.Notification, error) {
	seed, err := s.repo.ListNotifications(ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range seed {
		if n.ID == id {
			toggled := s.sessions.Get(sessionID).ToggleRead(n)
			return &toggled, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "notification", ID: id}
}

func (s *InteractionService) MarkAllRead(ctx context.Context, sessionID string) ([]domain.Notification, error) {
	seed, err := s.repo.ListNotifications(ctx)
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(sessionID).MarkAllRead(seed), nil
}
