package cart

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Price is a unit price captured when an item is added.
type Price struct {
	Amount         float64 `json:"amount"`
	CurrencySymbol string  `json:"currencySymbol"`
}

// LineItem is one entry in the cart. Name, UnitPrice and ImageRef are copied
// from the product at add-time and never refreshed.
type LineItem struct {
	ProductID       string            `json:"productId"`
	Name            string            `json:"name"`
	UnitPrice       Price             `json:"unitPrice"`
	ImageRef        string            `json:"imageRef"`
	SelectedOptions map[string]string `json:"selectedOptions"`
	Quantity        int               `json:"quantity"`
}

// Clone returns a deep copy of the item.
func (li LineItem) Clone() LineItem {
	li.SelectedOptions = cloneOptions(li.SelectedOptions)
	return li
}

// LineTotal is UnitPrice.Amount * Quantity.
func (li LineItem) LineTotal() float64 {
	return li.UnitPrice.Amount * float64(li.Quantity)
}

// OptionNames returns the selected attribute names in sorted order.
func (li LineItem) OptionNames() []string {
	names := make([]string, 0, len(li.SelectedOptions))
	for k := range li.SelectedOptions {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// State is a point-in-time copy of the cart.
type State struct {
	Items       []LineItem
	OverlayOpen bool
}

// TotalQuantity sums the quantities of all items.
func (s State) TotalQuantity() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice sums amount * quantity over all items.
func (s State) TotalPrice() float64 {
	var total float64
	for _, it := range s.Items {
		total += it.LineTotal()
	}
	return total
}

// CurrencySymbol is the first item's symbol, or "$" for an empty cart or a
// missing symbol.
func (s State) CurrencySymbol() string {
	if len(s.Items) == 0 || s.Items[0].UnitPrice.CurrencySymbol == "" {
		return "$"
	}
	return s.Items[0].UnitPrice.CurrencySymbol
}

// CountLabel renders a header count: "1 Item" or "N Items".
func CountLabel(n int) string {
	if n == 1 {
		return "1 Item"
	}
	return fmt.Sprintf("%d Items", n)
}

// EncodeItems serializes items in the persisted cart layout.
func EncodeItems(items []LineItem) (json.RawMessage, error) {
	if items == nil {
		items = []LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	return data, nil
}

// DecodeItems parses a persisted cart. Entries without a product id or with
// a quantity below one are rejected, and entries sharing a product id and
// options are merged into the first occurrence.
func DecodeItems(data []byte) ([]LineItem, error) {
	var raw []LineItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	items := make([]LineItem, 0, len(raw))
	for i, it := range raw {
		if it.ProductID == "" {
			return nil, fmt.Errorf("failed to decode cart: item %d has no productId", i)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("failed to decode cart: item %d has quantity %d", i, it.Quantity)
		}
		if it.SelectedOptions == nil {
			it.SelectedOptions = map[string]string{}
		}
		if j := indexOf(items, it.ProductID, it.SelectedOptions); j >= 0 {
			items[j].Quantity += it.Quantity
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func indexOf(items []LineItem, productID string, options map[string]string) int {
	for i, it := range items {
		if it.ProductID == productID && OptionsMatch(it.SelectedOptions, options) {
			return i
		}
	}
	return -1
}
