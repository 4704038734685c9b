package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

type PublishService struct {
	pinner ports.Pinner
	policy *bluemonday.Policy
	now    func() time.Time
	logger *zap.Logger
}

func NewPublishService(pinner ports.Pinner, logger *zap.Logger) *PublishService {
	return &PublishService{
		pinner: pinner,
		policy: bluemonday.UGCPolicy(),
		now:    time.Now,
		logger: logger,
	}
}

var _ ports.PublishService = (*PublishService)(nil)

// Publish sanitizes the submitted form and pins it as a JSON document.
func (s *PublishService) Publish(ctx context.Context, sub domain.FormSubmission) (*domain.PinResult, error) {
	title := strings.TrimSpace(sub.Title)
	slug := strings.TrimSpace(sub.Slug)
	if title == "" || slug == "" {
		return nil, fmt.Errorf("%w: title and slug are required", domain.ErrInvalidInput)
	}

	categories := make([]string, 0, len(sub.Categories))
	for _, c := range sub.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	doc := domain.PublishedDocument{
		Title:      title,
		Content:    s.policy.Sanitize(sub.Content),
		Slug:       slug,
		Collection: strings.TrimSpace(sub.Collection),
		Categories: categories,
		CreatedAt:  s.now().UTC(),
	}

	hash, err := s.pinner.PinJSON(ctx, slug, doc)
	if err != nil {
		return nil, fmt.Errorf("pinning %q: %w", slug, err)
	}

	s.logger.Info("Form pinned", zap.String("slug", slug), zap.String("hash", hash))
	return &domain.PinResult{IPFSHash: hash, URL: s.pinner.GatewayURL(hash)}, nil
}
