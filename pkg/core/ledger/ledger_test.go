package ledger

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestApplyReaction_Accumulates(t *testing.T) {
	l := New(nil)
	base := domain.ReactionCounts{domain.ReactionLike: 4, domain.ReactionHeart: 1}

	first, _ := l.ApplyReaction("c1", domain.ReactionLike, base)
	second, _ := l.ApplyReaction("c1", domain.ReactionLike, base)

	assert.Equal(t, int64(5), first[domain.ReactionLike])
	assert.Equal(t, int64(6), second[domain.ReactionLike], "two calls must add two, not one")
	assert.Equal(t, int64(1), second[domain.ReactionHeart])
	assert.Equal(t, int64(4), base[domain.ReactionLike], "base counters must not be mutated")
}

func TestApplyReaction_RecordsEachEventOnce(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := New(fixedClock(now))

	_, ev := l.ApplyReaction("c1", domain.ReactionCrown, nil)
	l.ApplyReaction("c2", domain.ReactionFire, nil)

	events := l.Events()
	require.Len(t, events, 2)
	assert.Equal(t, ev, events[0])
	assert.Equal(t, "c1", ev.TargetID)
	assert.Equal(t, domain.ReactionCrown, ev.Kind)
	assert.Equal(t, now, ev.Timestamp)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestApplyReaction_ReturnedCountsAreCopies(t *testing.T) {
	l := New(nil)
	counts, _ := l.ApplyReaction("c1", domain.ReactionLike, nil)
	counts[domain.ReactionLike] = 100

	assert.Equal(t, int64(1), l.Counts("c1", nil)[domain.ReactionLike])
}

func TestApplyReaction_Concurrent(t *testing.T) {
	l := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.ApplyReaction("c1", domain.ReactionClap, nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), l.Counts("c1", nil)[domain.ReactionClap])
}

func TestCart_AddMergesAndClamps(t *testing.T) {
	l := New(nil)
	zine := domain.Product{ID: "p1", Price: 1200, AltPrice: 3}
	badge := domain.Product{ID: "p2", Price: 500}

	l.AddToCart(zine, 2)
	l.AddToCart(badge, 0)
	line := l.AddToCart(zine, 3)

	assert.Equal(t, 5, line.Quantity)
	cart := l.Cart()
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "p1", cart.Lines[0].Product.ID)
	assert.Equal(t, 1, cart.Lines[1].Quantity)
	assert.Equal(t, 6, cart.ItemCount)
	assert.Equal(t, int64(5*1200+500), cart.Subtotal)
	assert.Equal(t, int64(15), cart.AltSubtotal)
}

func TestCart_SetQuantityNeverBelowOne(t *testing.T) {
	l := New(nil)
	l.AddToCart(domain.Product{ID: "p1"}, 4)

	for _, q := range []int{0, -1, -100} {
		line, err := l.SetQuantity("p1", q)
		require.NoError(t, err)
		assert.Equal(t, 1, line.Quantity, "qty %d", q)
		assert.Equal(t, 1, l.Cart().Lines[0].Quantity)
	}

	line, err := l.SetQuantity("p1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, line.Quantity)

	_, err = l.SetQuantity("missing", 2)
	assert.True(t, domain.IsNotFound(err))
}

func TestCart_QuantitySaturates(t *testing.T) {
	l := New(nil)
	p := domain.Product{ID: "p1", Price: domain.MaxPrice, AltPrice: 50}

	l.AddToCart(p, math.MaxInt)
	line := l.AddToCart(p, 2)
	assert.Equal(t, domain.MaxLineQuantity, line.Quantity)

	line = l.AddToCart(p, math.MaxInt)
	assert.Equal(t, domain.MaxLineQuantity, line.Quantity)

	line, err := l.SetQuantity("p1", math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxLineQuantity, line.Quantity)

	cart := l.Cart()
	assert.Equal(t, domain.MaxPrice*domain.MaxLineQuantity, cart.Subtotal)
	assert.Positive(t, cart.Subtotal)
	assert.Equal(t, domain.MaxLineQuantity, cart.ItemCount)
}

func TestCart_RemoveAndCheckout(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	l := New(fixedClock(now))

	_, err := l.Checkout()
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	l.AddToCart(domain.Product{ID: "p1", Price: 10}, 2)
	l.AddToCart(domain.Product{ID: "p2", Price: 5}, 1)
	require.NoError(t, l.RemoveFromCart("p2"))
	assert.True(t, domain.IsNotFound(l.RemoveFromCart("p2")))

	receipt, err := l.Checkout()
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, int64(20), receipt.Total)
	assert.Equal(t, now, receipt.CompletedAt)
	assert.Empty(t, l.Cart().Lines)
}

func TestNotifications_ToggleAndOverlay(t *testing.T) {
	l := New(nil)
	seed := []domain.Notification{
		{ID: "n1", Read: true},
		{ID: "n2"},
	}

	toggled := l.ToggleRead(seed[1])
	assert.True(t, toggled.Read)
	toggled = l.ToggleRead(seed[0])
	assert.False(t, toggled.Read)

	view := l.Overlay(seed)
	assert.False(t, view[0].Read)
	assert.True(t, view[1].Read)
	assert.True(t, seed[0].Read, "seed must stay untouched")

	toggled = l.ToggleRead(seed[1])
	assert.False(t, toggled.Read)

	all := l.MarkAllRead(seed)
	for _, n := range l.Overlay(seed) {
		assert.True(t, n.Read)
	}
	assert.Len(t, all, 2)
}

func TestSessions_GetAndSweep(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := now
	s := NewSessions(func() time.Time { return clock })

	a := s.Get("a")
	assert.Same(t, a, s.Get("a"))
	s.Get("b")
	require.Equal(t, 2, s.Len())

	clock = now.Add(20 * time.Minute)
	s.Get("b")
	clock = now.Add(40 * time.Minute)

	assert.Equal(t, 1, s.Sweep(30*time.Minute))
	assert.Equal(t, 1, s.Len())
	assert.NotSame(t, a, s.Get("a"))
}
