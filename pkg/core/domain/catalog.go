package domain

import (
	"errors"
	"fmt"
)

// Catalog is the full seed data set. It is built once at startup and only
// read afterwards.
type Catalog struct {
	Authors       []Author       `json:"authors"`
	Items         []ContentItem  `json:"items"`
	Products      []Product      `json:"products"`
	Notifications []Notification `json:"notifications"`
	RewardTiers   []RewardTier   `json:"reward_tiers"`
}

// Validate checks id uniqueness per collection, author references,
// non-negative counters and ascending reward tier thresholds.
func (c *Catalog) Validate() error {
	var errs []error

	authors := make(map[string]struct{}, len(c.Authors))
	for _, a := range c.Authors {
		if a.ID == "" {
			errs = append(errs, errors.New("author with empty id"))
			continue
		}
		if _, dup := authors[a.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate author id %q", a.ID))
		}
		authors[a.ID] = struct{}{}
	}

	items := make(map[string]struct{}, len(c.Items))
	for _, it := range c.Items {
		if it.ID == "" {
			errs = append(errs, errors.New("content item with empty id"))
			continue
		}
		if _, dup := items[it.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate content item id %q", it.ID))
		}
		items[it.ID] = struct{}{}
		if _, ok := authors[it.AuthorID]; !ok {
			errs = append(errs, fmt.Errorf("content item %q: %w", it.ID, &NotFoundError{Kind: "author", ID: it.AuthorID}))
		}
		if it.Date.IsZero() {
			errs = append(errs, fmt.Errorf("content item %q: missing date", it.ID))
		}
		for kind, n := range it.ReactionCounts {
			if n < 0 {
				errs = append(errs, fmt.Errorf("content item %q: negative %s count", it.ID, kind))
			}
		}
		if it.ViewCount < 0 || it.Price < 0 {
			errs = append(errs, fmt.Errorf("content item %q: negative price or view count", it.ID))
		}
	}

	products := make(map[string]struct{}, len(c.Products))
	for _, p := range c.Products {
		if _, dup := products[p.ID]; dup || p.ID == "" {
			errs = append(errs, fmt.Errorf("duplicate or empty product id %q", p.ID))
		}
		products[p.ID] = struct{}{}
		if p.Price < 0 || p.AltPrice < 0 {
			errs = append(errs, fmt.Errorf("product %q: negative price", p.ID))
		}
		if p.Price > MaxPrice || p.AltPrice > MaxPrice {
			errs = append(errs, fmt.Errorf("product %q: price above %d", p.ID, MaxPrice))
		}
	}

	notifications := make(map[string]struct{}, len(c.Notifications))
	for _, n := range c.Notifications {
		if _, dup := notifications[n.ID]; dup || n.ID == "" {
			errs = append(errs, fmt.Errorf("duplicate or empty notification id %q", n.ID))
		}
		notifications[n.ID] = struct{}{}
	}

	tiers := make(map[string]struct{}, len(c.RewardTiers))
	for i, t := range c.RewardTiers {
		if _, dup := tiers[t.ID]; dup || t.ID == "" {
			errs = append(errs, fmt.Errorf("duplicate or empty reward tier id %q", t.ID))
		}
		tiers[t.ID] = struct{}{}
		if i > 0 && t.MinPoints <= c.RewardTiers[i-1].MinPoints {
			errs = append(errs, fmt.Errorf("reward tier %q: thresholds must be ascending", t.ID))
		}
	}

	return errors.Join(errs...)
}
