package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
)

func scored(id, author string, views int64) domain.ContentItem {
	return domain.ContentItem{ID: id, AuthorID: author, ViewCount: views}
}

func TestAggregateByAuthor_RanksAndTopN(t *testing.T) {
	items := []domain.ContentItem{
		scored("p1", "A", 10),
		scored("p2", "B", 5),
		scored("p3", "A", 20),
	}

	ranked := AggregateByAuthor(items, ViewScore)
	require.Len(t, ranked, 2)
	assert.Equal(t, AuthorTotal{AuthorID: "A", TotalScore: 30, ItemCount: 2}, ranked[0])
	assert.Equal(t, AuthorTotal{AuthorID: "B", TotalScore: 5, ItemCount: 1}, ranked[1])

	top := TopN(ranked, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "A", top[0].AuthorID)
	assert.Equal(t, int64(30), top[0].TotalScore)
}

func TestAggregateByAuthor_TiesKeepFirstSeenOrder(t *testing.T) {
	items := []domain.ContentItem{
		scored("p1", "C", 7),
		scored("p2", "A", 7),
		scored("p3", "B", 9),
		scored("p4", "D", 7),
	}

	ranked := AggregateByAuthor(items, ViewScore)
	got := make([]string, 0, len(ranked))
	for _, r := range ranked {
		got = append(got, r.AuthorID)
	}
	assert.Equal(t, []string{"B", "C", "A", "D"}, got)
}

func TestAggregateByAuthor_SumsMatch(t *testing.T) {
	items := []domain.ContentItem{
		{ID: "1", AuthorID: "x", ReactionCounts: domain.ReactionCounts{domain.ReactionLike: 3, domain.ReactionHeart: 1}},
		{ID: "2", AuthorID: "y", ReactionCounts: domain.ReactionCounts{domain.ReactionCrown: 2}},
		{ID: "3", AuthorID: "x", ReactionCounts: domain.ReactionCounts{}},
		{ID: "4", AuthorID: "z", ReactionCounts: domain.ReactionCounts{domain.ReactionFire: 11}},
		{ID: "5", AuthorID: "y", ReactionCounts: domain.ReactionCounts{domain.ReactionLike: 4}},
	}

	ranked := AggregateByAuthor(items, ReactionScore)

	var grand int64
	for _, it := range items {
		grand += ReactionScore(it)
	}
	var sum int64
	for _, r := range ranked {
		var perAuthor int64
		var count int
		for _, it := range items {
			if it.AuthorID == r.AuthorID {
				perAuthor += ReactionScore(it)
				count++
			}
		}
		assert.Equal(t, perAuthor, r.TotalScore, "author %s", r.AuthorID)
		assert.Equal(t, count, r.ItemCount, "author %s", r.AuthorID)
		sum += r.TotalScore
	}
	assert.Equal(t, grand, sum)
}

func TestAggregateByAuthor_Empty(t *testing.T) {
	assert.Empty(t, AggregateByAuthor(nil, ViewScore))
}

func TestTopN(t *testing.T) {
	xs := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2}, TopN(xs, 2))
	assert.Equal(t, []int{1, 2, 3}, TopN(xs, 10))
	assert.Equal(t, []int{1, 2, 3}, TopN(xs, -1))
	assert.Empty(t, TopN(xs, 0))
}

func TestGroupByMonth(t *testing.T) {
	items := []domain.ContentItem{
		{ID: "a", Date: mustDate(t, "2023-07-01")},
		{ID: "b", Date: mustDate(t, "2023-06-30")},
		{ID: "c", Date: mustDate(t, "2023-07-20")},
	}

	buckets := GroupByMonth(items)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2023-07", buckets[0].Month)
	assert.Equal(t, []string{"a", "c"}, ids(buckets[0].Items))
	assert.Equal(t, "2023-06", buckets[1].Month)
}

func TestTierFor(t *testing.T) {
	tiers := []domain.RewardTier{
		{ID: "bronze", MinPoints: 0},
		{ID: "silver", MinPoints: 100},
		{ID: "gold", MinPoints: 500},
	}

	tier, ok := TierFor(tiers, 99)
	require.True(t, ok)
	assert.Equal(t, "bronze", tier.ID)

	tier, _ = TierFor(tiers, 500)
	assert.Equal(t, "gold", tier.ID)

	_, ok = TierFor(tiers[1:], 10)
	assert.False(t, ok)
}
