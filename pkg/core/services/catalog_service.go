package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/core/query"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

const defaultLeaderboardSize = 10

type CatalogService struct {
	repo   ports.CatalogProvider
	logger *zap.Logger
}

func NewCatalogService(repo ports.CatalogProvider, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

var _ ports.CatalogService = (*CatalogService)(nil)

func (s *CatalogService) ListItems(ctx context.Context, q ports.ItemQuery) ([]domain.ContentItem, error) {
	preds := []query.Predicate[domain.ContentItem]{}

	if q.Category != "" {
		c, err := domain.ParseCategory(q.Category)
		if err != nil {
			return nil, err
		}
		preds = append(preds, query.ByCategory(c))
	}
	if q.Type != "" {
		t, err := domain.ParseContentType(q.Type)
		if err != nil {
			return nil, err
		}
		preds = append(preds, query.ByType(t))
	}
	if q.Tag != "" {
		preds = append(preds, query.ByTag(q.Tag))
	}
	if q.AuthorID != "" {
		preds = append(preds, query.ByAuthor(q.AuthorID))
	}
	if q.Year != "" || q.Month != "" {
		p, err := query.ByYearMonth(q.Year, q.Month)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if strings.TrimSpace(q.Text) != "" {
		authors, err := s.authorIndex(ctx)
		if err != nil {
			return nil, err
		}
		preds = append(preds, query.MatchText(q.Text, authors))
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(items, query.And(preds...)), nil
}

func (s *CatalogService) GetItem(ctx context.Context, id string) (*domain.ContentItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.NotFoundError{Kind: "content item", ID: id}
	}
	return item, nil
}

// AuthorArchive lists an author's items grouped by month, optionally
// narrowed to a year and month.
func (s *CatalogService) AuthorArchive(ctx context.Context, authorID, year, month string) (*domain.AuthorArchive, error) {
	author, err := s.repo.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, &domain.NotFoundError{Kind: "author", ID: authorID}
	}

	items, err := s.ListItems(ctx, ports.ItemQuery{AuthorID: authorID, Year: year, Month: month})
	if err != nil {
		return nil, err
	}

	return &domain.AuthorArchive{
		Author:  *author,
		Total:   len(items),
		Buckets: query.GroupByMonth(items),
	}, nil
}

// Leaderboard ranks authors by the chosen metric ("reactions" or "views")
// and tags each entry with the reward tier its score reaches.
func (s *CatalogService) Leaderboard(ctx context.Context, metric string, top int) ([]domain.LeaderboardEntry, error) {
	var score query.ScoreFunc
	switch strings.ToLower(metric) {
	case "", "reactions":
		score = query.ReactionScore
	case "views":
		score = query.ViewScore
	default:
		return nil, &domain.ParseError{Field: "metric", Value: metric}
	}
	if top < 1 {
		top = defaultLeaderboardSize
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	authors, err := s.authorIndex(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := s.repo.ListRewardTiers(ctx)
	if err != nil {
		return nil, err
	}

	ranked := query.TopN(query.AggregateByAuthor(items, score), top)
	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, r := range ranked {
		entry := domain.LeaderboardEntry{
			Rank:       i + 1,
			AuthorID:   r.AuthorID,
			AuthorName: authors[r.AuthorID].Name,
			TotalScore: r.TotalScore,
			ItemCount:  r.ItemCount,
		}
		if tier, ok := query.TierFor(tiers, r.TotalScore); ok {
			entry.Tier = tier.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, kind, search string) ([]domain.Product, error) {
	preds := []query.Predicate[domain.Product]{query.ProductNameMatch(search)}
	if kind != "" {
		k, err := domain.ParseProductKind(kind)
		if err != nil {
			return nil, err
		}
		preds = append(preds, query.ProductsByKind(k))
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(products, query.And(preds...)), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{Kind: "product", ID: id}
	}
	return p, nil
}

func (s *CatalogService) ListRewardTiers(ctx context.Context) ([]domain.RewardTier, error) {
	return s.repo.ListRewardTiers(ctx)
}

func (s *CatalogService) authorIndex(ctx context.Context) (map[string]domain.Author, error) {
	authors, err := s.repo.ListAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}
	index := make(map[string]domain.Author, len(authors))
	for _, a := range authors {
		index[a.ID] = a
	}
	return index, nil
}
