// Package catalog holds the read-only product model served by the storefront
// API together with the lookups the listing and detail views need.
package catalog

import (
	"errors"
	"strings"
)

var (
	// ErrProductNotFound is returned when no product matches a slug.
	ErrProductNotFound = errors.New("product not found")
	// ErrOutOfStock is returned when an out-of-stock product is added.
	ErrOutOfStock = errors.New("product is out of stock")
)

// Currency identifies the currency a price is quoted in.
type Currency struct {
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

// Price is a single quoted amount.
type Price struct {
	Amount   float64  `json:"amount"`
	Currency Currency `json:"currency"`
}

// AttributeItem is one selectable value of an attribute.
type AttributeItem struct {
	ID           string `json:"id"`
	DisplayValue string `json:"displayValue"`
	Value        string `json:"value"`
}

// Attribute is a configurable dimension of a product, such as size or color.
// Type is "text" or "swatch".
type Attribute struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Items []AttributeItem `json:"items"`
}

// Product is a catalog entry as returned by the products query.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InStock     bool        `json:"inStock"`
	Category    string      `json:"category"`
	Gallery     []string    `json:"gallery"`
	Prices      []Price     `json:"prices"`
	Attributes  []Attribute `json:"attributes"`
}

// FirstPrice returns the product's first price, or a zero price in dollars
// when the product carries none.
func (p Product) FirstPrice() Price {
	if len(p.Prices) == 0 {
		return Price{Currency: Currency{Label: "USD", Symbol: "$"}}
	}
	return p.Prices[0]
}

// Attribute returns the attribute declared under id. When no id matches, an
// attribute whose display name equals id is returned instead.
func (p Product) Attribute(id string) (Attribute, bool) {
	for _, a := range p.Attributes {
		if a.ID == id {
			return a, true
		}
	}
	for _, a := range p.Attributes {
		if a.Name == id {
			return a, true
		}
	}
	return Attribute{}, false
}

// HasValue reports whether value is one of the attribute's items.
func (a Attribute) HasValue(value string) bool {
	for _, item := range a.Items {
		if item.Value == value {
			return true
		}
	}
	return false
}

// DefaultValue returns the value of the attribute's first item.
func (a Attribute) DefaultValue() (string, bool) {
	if len(a.Items) == 0 {
		return "", false
	}
	return a.Items[0].Value, true
}

// AllSelected reports whether selected, keyed by attribute id, has an
// explicit choice for every declared attribute of the product.
func AllSelected(p Product, selected map[string]string) bool {
	for _, a := range p.Attributes {
		if _, ok := selected[a.ID]; !ok {
			return false
		}
	}
	return true
}

// GalleryIndex moves current by step within a gallery of n images, wrapping
// around at both ends.
func GalleryIndex(current, n, step int) int {
	if n <= 0 {
		return 0
	}
	i := (current + step) % n
	if i < 0 {
		i += n
	}
	return i
}

// PlainDescription returns the description with HTML markup removed and
// surrounding whitespace trimmed.
func (p Product) PlainDescription() string {
	var b strings.Builder
	depth := 0
	for _, r := range p.Description {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
