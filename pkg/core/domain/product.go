package domain

import (
	"slices"
	"strings"
	"time"
)

type ProductKind string

const (
	ProductDigital     ProductKind = "digital"
	ProductPhysical    ProductKind = "physical"
	ProductCollectible ProductKind = "collectible"
)

var productKinds = []ProductKind{ProductDigital, ProductPhysical, ProductCollectible}

func ParseProductKind(s string) (ProductKind, error) {
	k := ProductKind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(productKinds, k) {
		return "", &ParseError{Field: "product kind", Value: s}
	}
	return k, nil
}

// Product is a marketplace entry. Price and AltPrice are minor units
// (cents, gwei-like token units); they are never charged.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       int64       `json:"price"`
	AltPrice    int64       `json:"alt_price"`
	ImageRef    string      `json:"image_ref"`
	AuthorName  string      `json:"author_name"`
	Kind        ProductKind `json:"kind"`
}

// Bounds that keep Price*Quantity and cart totals inside int64.
const (
	MaxLineQuantity       = 9999
	MaxPrice        int64 = 1_000_000_000_000
)

// CartLine holds a product snapshot and a quantity in [1, MaxLineQuantity].
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

type Cart struct {
	Lines       []CartLine `json:"lines"`
	ItemCount   int        `json:"item_count"`
	Subtotal    int64      `json:"subtotal"`
	AltSubtotal int64      `json:"alt_subtotal"`
}

// Receipt is the result of a simulated checkout; nothing is charged.
type Receipt struct {
	ID          string     `json:"id"`
	Lines       []CartLine `json:"lines"`
	Total       int64      `json:"total"`
	AltTotal    int64      `json:"alt_total"`
	CompletedAt time.Time  `json:"completed_at"`
}
