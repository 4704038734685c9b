// Package ledger keeps the per-session interaction state: reaction counters,
// the cart and notification read flags. Nothing here outlives the process.
package ledger

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
)

const maxEvents = 256

type Ledger struct {
	mu        sync.Mutex
	now       func() time.Time
	reactions map[string]domain.ReactionCounts
	events    []domain.ReactionEvent
	cart      []domain.CartLine
	read      map[string]bool
}

func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		now:       now,
		reactions: make(map[string]domain.ReactionCounts),
		read:      make(map[string]bool),
	}
}

// ApplyReaction increments the (itemID, kind) counter by one and returns the
// item's updated counters. Counters start from base the first time an item
// is touched. Calls are not deduplicated: every call is one increment.
func (l *Ledger) ApplyReaction(itemID string, kind domain.ReactionKind, base domain.ReactionCounts) (domain.ReactionCounts, domain.ReactionEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts, ok := l.reactions[itemID]
	if !ok {
		counts = base.Clone()
		l.reactions[itemID] = counts
	}
	counts[kind]++

	ev := domain.ReactionEvent{
		ID:        uuid.NewString(),
		TargetID:  itemID,
		Kind:      kind,
		Timestamp: l.now(),
	}
	l.events = append(l.events, ev)
	if len(l.events) > maxEvents {
		l.events = slices.Clone(l.events[len(l.events)-maxEvents:])
	}
	return counts.Clone(), ev
}

// Counts returns the session view of an item's counters, falling back to base.
func (l *Ledger) Counts(itemID string, base domain.ReactionCounts) domain.ReactionCounts {
	l.mu.Lock()
	defer l.mu.Unlock()
	if counts, ok := l.reactions[itemID]; ok {
		return counts.Clone()
	}
	return base.Clone()
}

// Events returns the applied reactions, oldest first.
func (l *Ledger) Events() []domain.ReactionEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

func clampQuantity(q int) int {
	return min(max(q, 1), domain.MaxLineQuantity)
}

// AddToCart merges qty into an existing line for the product or appends a
// new line. Quantities below 1 count as 1; merged lines saturate at
// domain.MaxLineQuantity.
func (l *Ledger) AddToCart(p domain.Product, qty int) domain.CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()

	qty = clampQuantity(qty)
	for i := range l.cart {
		if l.cart[i].Product.ID == p.ID {
			l.cart[i].Quantity = clampQuantity(l.cart[i].Quantity + qty)
			return l.cart[i]
		}
	}
	line := domain.CartLine{Product: p, Quantity: qty}
	l.cart = append(l.cart, line)
	return line
}

// SetQuantity replaces the quantity of an existing line, clamped to
// [1, domain.MaxLineQuantity].
func (l *Ledger) SetQuantity(productID string, qty int) (domain.CartLine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.cart {
		if l.cart[i].Product.ID == productID {
			l.cart[i].Quantity = clampQuantity(qty)
			return l.cart[i], nil
		}
	}
	return domain.CartLine{}, &domain.NotFoundError{Kind: "cart line", ID: productID}
}

func (l *Ledger) RemoveFromCart(productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.cart {
		if l.cart[i].Product.ID == productID {
			l.cart = slices.Delete(l.cart, i, i+1)
			return nil
		}
	}
	return &domain.NotFoundError{Kind: "cart line", ID: productID}
}

func (l *Ledger) Cart() domain.Cart {
	l.mu.Lock()
	defer l.mu.Unlock()
	return summarize(l.cart)
}

func summarize(lines []domain.CartLine) domain.Cart {
	cart := domain.Cart{Lines: slices.Clone(lines)}
	if cart.Lines == nil {
		cart.Lines = []domain.CartLine{}
	}
	for _, line := range lines {
		cart.ItemCount += line.Quantity
		cart.Subtotal += line.Subtotal()
		cart.AltSubtotal += line.Product.AltPrice * int64(line.Quantity)
	}
	return cart
}

// Checkout simulates a purchase: it returns a receipt and empties the cart.
func (l *Ledger) Checkout() (domain.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.cart) == 0 {
		return domain.Receipt{}, fmt.Errorf("%w: cart is empty", domain.ErrInvalidInput)
	}
	sum := summarize(l.cart)
	l.cart = nil
	return domain.Receipt{
		ID:          uuid.NewString(),
		Lines:       sum.Lines,
		Total:       sum.Subtotal,
		AltTotal:    sum.AltSubtotal,
		CompletedAt: l.now(),
	}, nil
}

// ToggleRead flips the read flag of n for this session and returns the result.
func (l *Ledger) ToggleRead(n domain.Notification) domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	read, ok := l.read[n.ID]
	if !ok {
		read = n.Read
	}
	n.Read = !read
	l.read[n.ID] = n.Read
	return n
}

func (l *Ledger) MarkAllRead(ns []domain.Notification) []domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Notification, len(ns))
	for i, n := range ns {
		l.read[n.ID] = true
		n.Read = true
		out[i] = n
	}
	return out
}

// Overlay applies the session's read flags to seed notifications.
func (l *Ledger) Overlay(ns []domain.Notification) []domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Notification, len(ns))
	for i, n := range ns {
		if read, ok := l.read[n.ID]; ok {
			n.Read = read
		}
		out[i] = n
	}
	return out
}
