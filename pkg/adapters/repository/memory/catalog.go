// Package memory serves the seed catalog straight from process memory.
package memory

import (
	"context"
	"slices"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

type CatalogRepository struct {
	cat *domain.Catalog
}

// NewCatalogRepository takes ownership of cat. Callers must not mutate it afterwards.
func NewCatalogRepository(cat *domain.Catalog) *CatalogRepository {
	if cat == nil {
		cat = &domain.Catalog{}
	}
	return &CatalogRepository{cat: cat}
}

var _ ports.CatalogProvider = (*CatalogRepository)(nil)

func (r *CatalogRepository) ListItems(ctx context.Context) ([]domain.ContentItem, error) {
	out := make([]domain.ContentItem, len(r.cat.Items))
	for i, it := range r.cat.Items {
		out[i] = it.Clone()
	}
	return out, nil
}

func (r *CatalogRepository) GetItem(ctx context.Context, id string) (*domain.ContentItem, error) {
	for _, it := range r.cat.Items {
		if it.ID == id {
			c := it.Clone()
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CatalogRepository) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	return slices.Clone(r.cat.Authors), nil
}

func (r *CatalogRepository) GetAuthor(ctx context.Context, id string) (*domain.Author, error) {
	for _, a := range r.cat.Authors {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return slices.Clone(r.cat.Products), nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	for _, p := range r.cat.Products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *CatalogRepository) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	return slices.Clone(r.cat.Notifications), nil
}

func (r *CatalogRepository) ListRewardTiers(ctx context.Context) ([]domain.RewardTier, error) {
	out := make([]domain.RewardTier, len(r.cat.RewardTiers))
	for i, t := range r.cat.RewardTiers {
		t.Perks = slices.Clone(t.Perks)
		out[i] = t
	}
	return out, nil
}

func (r *CatalogRepository) Dump(ctx context.Context) (*domain.Catalog, error) {
	items, err := r.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := r.ListRewardTiers(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Catalog{
		Authors:       slices.Clone(r.cat.Authors),
		Items:         items,
		Products:      slices.Clone(r.cat.Products),
		Notifications: slices.Clone(r.cat.Notifications),
		RewardTiers:   tiers,
	}, nil
}
