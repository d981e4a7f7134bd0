package catalog

import (
	"regexp"
	"sort"
	"strings"
)

var (
	slugSpace   = regexp.MustCompile(`\s+`)
	slugNonWord = regexp.MustCompile(`[^A-Za-z0-9_\-]+`)
	slugDashes  = regexp.MustCompile(`--+`)
)

// slugOverrides maps product ids to slugs that differ from their name.
var slugOverrides = map[string]string{
	"ps-5": "playstation-5",
}

// Slugify lowercases text, replaces whitespace runs with a dash, drops
// anything that is not a word character or dash, and collapses dashes.
func Slugify(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugNonWord.ReplaceAllString(s, "")
	return slugDashes.ReplaceAllString(s, "-")
}

// Slug returns the URL-style identifier used to address a product.
func Slug(p Product) string {
	if s, ok := slugOverrides[p.ID]; ok {
		return s
	}
	return Slugify(p.Name)
}

// FindBySlug returns the product whose slug equals slug.
func FindBySlug(products []Product, slug string) (Product, error) {
	for _, p := range products {
		if Slug(p) == slug {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// ByCategory returns the products in category. The "all" category and the
// empty string select everything.
func ByCategory(products []Product, category string) []Product {
	if category == "" || category == "all" {
		return append([]Product(nil), products...)
	}
	var out []Product
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns "all" followed by the distinct product categories in
// sorted order.
func Categories(products []Product) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, p := range products {
		if p.Category == "" || p.Category == "all" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		names = append(names, p.Category)
	}
	sort.Strings(names)
	return append([]string{"all"}, names...)
}
