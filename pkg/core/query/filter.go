// Package query holds the pure selection and aggregation functions applied
// to catalog collections. Nothing here mutates its input.
package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
)

type Predicate[T any] func(T) bool

// Filter returns a new slice with the items satisfying pred, in source order.
func Filter[T any](items []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred == nil || pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// And matches when every predicate matches. Nil predicates are skipped.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if p != nil && !p(v) {
				return false
			}
		}
		return true
	}
}

func ByCategory(c domain.Category) Predicate[domain.ContentItem] {
	return func(it domain.ContentItem) bool { return it.Category == c }
}

func ByType(t domain.ContentType) Predicate[domain.ContentItem] {
	return func(it domain.ContentItem) bool { return it.Type == t }
}

func ByTag(tag string) Predicate[domain.ContentItem] {
	return func(it domain.ContentItem) bool { return it.HasTag(tag) }
}

func ByAuthor(authorID string) Predicate[domain.ContentItem] {
	return func(it domain.ContentItem) bool { return it.AuthorID == authorID }
}

// ByYearMonth matches items dated in the given year and, when month is not
// empty, the given month. Month accepts "6" and "06".
func ByYearMonth(year, month string) (Predicate[domain.ContentItem], error) {
	y, err := parseYear(year)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(month) == "" {
		return func(it domain.ContentItem) bool { return it.Date.Year == y }, nil
	}
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	return func(it domain.ContentItem) bool {
		return it.Date.Year == y && it.Date.Month == m
	}, nil
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 || !digitsOnly(s) {
		return 0, &domain.ParseError{Field: "year", Value: s}
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 {
		return 0, &domain.ParseError{Field: "year", Value: s, Err: err}
	}
	return y, nil
}

func parseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 2 || !digitsOnly(s) {
		return 0, &domain.ParseError{Field: "month", Value: s}
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, &domain.ParseError{Field: "month", Value: s, Err: err}
	}
	return time.Month(m), nil
}

// digitsOnly rejects the signs strconv.Atoi would accept.
func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MatchText is the free-text search box: case-insensitive substring match
// on title, author name and the ISO date.
func MatchText(q string, authors map[string]domain.Author) Predicate[domain.ContentItem] {
	q = strings.ToLower(strings.TrimSpace(q))
	return func(it domain.ContentItem) bool {
		if q == "" {
			return true
		}
		if strings.Contains(strings.ToLower(it.Title), q) || strings.Contains(it.Date.String(), q) {
			return true
		}
		a, ok := authors[it.AuthorID]
		return ok && strings.Contains(strings.ToLower(a.Name), q)
	}
}

func ProductsByKind(k domain.ProductKind) Predicate[domain.Product] {
	return func(p domain.Product) bool { return p.Kind == k }
}

// ProductNameMatch backs the product combobox.
func ProductNameMatch(q string) Predicate[domain.Product] {
	q = strings.ToLower(strings.TrimSpace(q))
	return func(p domain.Product) bool {
		return q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.AuthorName), q)
	}
}

func Unread() Predicate[domain.Notification] {
	return func(n domain.Notification) bool { return !n.Read }
}
