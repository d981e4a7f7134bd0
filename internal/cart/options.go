package cart

import "github.com/rugurujane/storefront/internal/catalog"

// OptionsMatch reports whether a and b select exactly the same attribute
// values. Both must have the same number of keys and every key of a must be
// present in b with an identical value; a key missing from b never matches,
// even when a's value is empty. Nil and empty maps are equal.
func OptionsMatch(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || av != bv {
			return false
		}
	}
	return true
}

// FinalOptions completes explicit with a default for every declared
// attribute of product that has no selection: the value of the attribute's
// first item. Attributes without items are skipped. explicit is not
// modified; keys it carries for undeclared attributes are kept.
func FinalOptions(product catalog.Product, explicit map[string]string) map[string]string {
	out := make(map[string]string, len(explicit)+len(product.Attributes))
	for k, v := range explicit {
		out[k] = v
	}
	for _, a := range product.Attributes {
		if _, ok := out[a.ID]; ok {
			continue
		}
		if v, ok := a.DefaultValue(); ok {
			out[a.ID] = v
		}
	}
	return out
}

func cloneOptions(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
