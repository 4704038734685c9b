// Package seed decodes the canonical catalog file into validated domain records.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type rawCatalog struct {
	Authors       []rawAuthor       `yaml:"authors"`
	Items         []rawItem         `yaml:"items"`
	Products      []rawProduct      `yaml:"products"`
	Notifications []rawNotification `yaml:"notifications"`
	RewardTiers   []rawTier         `yaml:"reward_tiers"`
}

type rawAuthor struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Bio    string `yaml:"bio"`
	Avatar string `yaml:"avatar"`
}

type rawItem struct {
	ID          string           `yaml:"id"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Author      string           `yaml:"author"`
	Date        string           `yaml:"date"`
	Category    string           `yaml:"category"`
	Tags        []string         `yaml:"tags"`
	Type        string           `yaml:"type"`
	Price       int64            `yaml:"price"`
	Views       int64            `yaml:"views"`
	Reactions   map[string]int64 `yaml:"reactions"`
}

type rawProduct struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
	AltPrice    int64  `yaml:"alt_price"`
	Image       string `yaml:"image"`
	Author      string `yaml:"author"`
	Kind        string `yaml:"kind"`
}

type rawNotification struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Timestamp   string `yaml:"timestamp"`
	Read        bool   `yaml:"read"`
	Severity    string `yaml:"severity"`
}

type rawTier struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	MinPoints int64    `yaml:"min_points"`
	Perks     []string `yaml:"perks"`
}

// Default returns the catalog compiled into the binary.
func Default() (*domain.Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the embedded one when path is empty.
func Load(path string) (*domain.Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML seed data and validates the result.
func Parse(data []byte) (*domain.Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	var errs []error
	cat := &domain.Catalog{}

	for _, a := range raw.Authors {
		cat.Authors = append(cat.Authors, domain.Author{
			ID:        a.ID,
			Name:      a.Name,
			Bio:       a.Bio,
			AvatarRef: a.Avatar,
		})
	}

	for _, r := range raw.Items {
		item, err := toItem(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %q: %w", r.ID, err))
			continue
		}
		cat.Items = append(cat.Items, item)
	}

	for _, r := range raw.Products {
		kind, err := domain.ParseProductKind(r.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("product %q: %w", r.ID, err))
			continue
		}
		cat.Products = append(cat.Products, domain.Product{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Price:       r.Price,
			AltPrice:    r.AltPrice,
			ImageRef:    r.Image,
			AuthorName:  r.Author,
			Kind:        kind,
		})
	}

	for _, r := range raw.Notifications {
		n, err := toNotification(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("notification %q: %w", r.ID, err))
			continue
		}
		cat.Notifications = append(cat.Notifications, n)
	}

	for _, r := range raw.RewardTiers {
		cat.RewardTiers = append(cat.RewardTiers, domain.RewardTier{
			ID:        r.ID,
			Name:      r.Name,
			MinPoints: r.MinPoints,
			Perks:     r.Perks,
		})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed catalog: %w", err)
	}
	return cat, nil
}

func toItem(r rawItem) (domain.ContentItem, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.ContentItem{}, err
	}
	category, err := domain.ParseCategory(r.Category)
	if err != nil {
		return domain.ContentItem{}, err
	}
	typ, err := domain.ParseContentType(r.Type)
	if err != nil {
		return domain.ContentItem{}, err
	}
	counts := make(domain.ReactionCounts, len(r.Reactions))
	for k, v := range r.Reactions {
		kind, err := domain.ParseReactionKind(k)
		if err != nil {
			return domain.ContentItem{}, err
		}
		counts[kind] = v
	}
	return domain.ContentItem{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		AuthorID:       r.Author,
		Date:           date,
		Category:       category,
		Tags:           domain.NormalizeTags(r.Tags),
		Type:           typ,
		Price:          r.Price,
		ViewCount:      r.Views,
		ReactionCounts: counts,
	}, nil
}

func toNotification(r rawNotification) (domain.Notification, error) {
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return domain.Notification{}, &domain.ParseError{Field: "timestamp", Value: r.Timestamp, Err: err}
	}
	sev, err := domain.ParseSeverity(r.Severity)
	if err != nil {
		return domain.Notification{}, err
	}
	return domain.Notification{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Timestamp:   ts,
		Read:        r.Read,
		Severity:    sev,
	}, nil
}
