package domain

import (
	"slices"
	"strings"
	"time"
)

// ContentType is the kind of listing a content item represents.
type ContentType string

const (
	TypePublication ContentType = "publication"
	TypeIPListing   ContentType = "ip_listing"
	TypeCourse      ContentType = "course"
	TypePodcast     ContentType = "podcast"
)

var contentTypes = []ContentType{TypePublication, TypeIPListing, TypeCourse, TypePodcast}

func ParseContentType(s string) (ContentType, error) {
	t := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(contentTypes, t) {
		return "", &ParseError{Field: "type", Value: s}
	}
	return t, nil
}

type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryArt        Category = "art"
	CategoryScience    Category = "science"
	CategoryMusic      Category = "music"
	CategoryFinance    Category = "finance"
	CategoryEducation  Category = "education"
	CategoryGaming     Category = "gaming"
)

var categories = []Category{
	CategoryTechnology, CategoryArt, CategoryScience, CategoryMusic,
	CategoryFinance, CategoryEducation, CategoryGaming,
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(categories, c) {
		return "", &ParseError{Field: "category", Value: s}
	}
	return c, nil
}

// ReactionKind is one of the incrementable signals a reader can attach to an item.
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionHeart ReactionKind = "heart"
	ReactionCrown ReactionKind = "crown"
	ReactionFire  ReactionKind = "fire"
	ReactionClap  ReactionKind = "clap"
)

var reactionKinds = []ReactionKind{ReactionLike, ReactionHeart, ReactionCrown, ReactionFire, ReactionClap}

func ParseReactionKind(s string) (ReactionKind, error) {
	k := ReactionKind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(reactionKinds, k) {
		return "", &ParseError{Field: "reaction kind", Value: s}
	}
	return k, nil
}

// ReactionCounts maps each reaction kind to its counter.
type ReactionCounts map[ReactionKind]int64

func (rc ReactionCounts) Clone() ReactionCounts {
	out := make(ReactionCounts, len(rc))
	for k, v := range rc {
		out[k] = v
	}
	return out
}

func (rc ReactionCounts) Total() int64 {
	var total int64
	for _, v := range rc {
		total += v
	}
	return total
}

type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarRef string `json:"avatar_ref"`
}

// ContentItem is a publication or listing. Only ReactionCounts changes after
// construction, and only inside a session ledger.
type ContentItem struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	AuthorID       string         `json:"author_id"`
	Date           Date           `json:"date"`
	Category       Category       `json:"category"`
	Tags           []string       `json:"tags"`
	Type           ContentType    `json:"type"`
	Price          int64          `json:"price"`
	ViewCount      int64          `json:"view_count"`
	ReactionCounts ReactionCounts `json:"reaction_counts"`
}

// NormalizeTags lowercases, trims and deduplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (c ContentItem) HasTag(tag string) bool {
	return slices.Contains(c.Tags, strings.ToLower(strings.TrimSpace(tag)))
}

func (c ContentItem) Clone() ContentItem {
	c.Tags = slices.Clone(c.Tags)
	c.ReactionCounts = c.ReactionCounts.Clone()
	return c
}

// ReactionEvent records one applied reaction.
type ReactionEvent struct {
	ID        string       `json:"id"`
	TargetID  string       `json:"target_id"`
	Kind      ReactionKind `json:"kind"`
	Timestamp time.Time    `json:"timestamp"`
}

// ReactionResult is what a reaction click returns for display.
type ReactionResult struct {
	ItemID string         `json:"item_id"`
	Kind   ReactionKind   `json:"kind"`
	Count  int64          `json:"count"`
	Counts ReactionCounts `json:"counts"`
	Event  ReactionEvent  `json:"event"`
}

// MonthBucket groups archive items sharing a YYYY-MM key.
type MonthBucket struct {
	Month string        `json:"month"`
	Items []ContentItem `json:"items"`
}

type AuthorArchive struct {
	Author  Author        `json:"author"`
	Total   int           `json:"total"`
	Buckets []MonthBucket `json:"buckets"`
}

// LeaderboardEntry is one ranked author with the reward tier their score reaches.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	TotalScore int64  `json:"total_score"`
	ItemCount  int    `json:"item_count"`
	Tier       string `json:"tier,omitempty"`
}
