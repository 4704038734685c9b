package query

import (
	"cmp"
	"slices"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
)

// ScoreFunc assigns the leaderboard score of a single item.
type ScoreFunc func(domain.ContentItem) int64

func ReactionScore(it domain.ContentItem) int64 { return it.ReactionCounts.Total() }

func ViewScore(it domain.ContentItem) int64 { return it.ViewCount }

type AuthorTotal struct {
	AuthorID   string `json:"author_id"`
	TotalScore int64  `json:"total_score"`
	ItemCount  int    `json:"item_count"`
}

// AggregateByAuthor folds items left to right into per-author totals and
// ranks them by descending score. Ties keep first-seen order.
func AggregateByAuthor(items []domain.ContentItem, score ScoreFunc) []AuthorTotal {
	index := make(map[string]int)
	totals := make([]AuthorTotal, 0)
	for _, it := range items {
		i, ok := index[it.AuthorID]
		if !ok {
			i = len(totals)
			index[it.AuthorID] = i
			totals = append(totals, AuthorTotal{AuthorID: it.AuthorID})
		}
		totals[i].TotalScore += score(it)
		totals[i].ItemCount++
	}
	slices.SortStableFunc(totals, func(a, b AuthorTotal) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})
	return totals
}

// TopN takes a prefix of at most n elements. A negative n keeps everything.
func TopN[T any](items []T, n int) []T {
	if n < 0 || n > len(items) {
		n = len(items)
	}
	return items[:n:n]
}

// GroupByMonth buckets items by YYYY-MM, buckets in first-seen order and
// items in source order within a bucket.
func GroupByMonth(items []domain.ContentItem) []domain.MonthBucket {
	index := make(map[string]int)
	buckets := make([]domain.MonthBucket, 0)
	for _, it := range items {
		key := it.Date.MonthKey()
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, domain.MonthBucket{Month: key})
		}
		buckets[i].Items = append(buckets[i].Items, it)
	}
	return buckets
}

// TierFor returns the highest tier whose threshold points reaches.
// tiers must be sorted by ascending MinPoints.
func TierFor(tiers []domain.RewardTier, points int64) (domain.RewardTier, bool) {
	var (
		best  domain.RewardTier
		found bool
	)
	for _, t := range tiers {
		if points < t.MinPoints {
			break
		}
		best, found = t, true
	}
	return best, found
}
