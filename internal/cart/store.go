// Package cart implements the session cart: line items keyed by product and
// selected options, derived totals, the overlay controller, and persistence
// of every change under a fixed storage key.
package cart

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/rugurujane/storefront/internal/catalog"
)

// StorageKey is the key the cart is persisted under within a session.
const StorageKey = "cart"

// Storage is the keyed session store the cart persists to.
// *storage.Entries satisfies it.
type Storage interface {
	Get(key string) (json.RawMessage, error)
	Put(key string, value json.RawMessage) error
}

// Store holds the cart for the current session. All methods are safe for
// concurrent use; every mutation writes a full snapshot before returning.
type Store struct {
	mu      sync.Mutex
	items   []LineItem
	overlay Overlay
	storage Storage
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store backed by storage, rehydrating any cart
// previously saved under StorageKey. A missing or unreadable snapshot yields
// an empty cart. storage may be nil, in which case nothing is persisted.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.load()
	return s
}

func (s *Store) load() []LineItem {
	if s.storage == nil {
		return nil
	}
	data, err := s.storage.Get(StorageKey)
	if err != nil {
		s.logger.Warn("cart: failed to read saved cart, starting empty", "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	items, err := DecodeItems(data)
	if err != nil {
		s.logger.Warn("cart: discarding unreadable saved cart", "error", err)
		return nil
	}
	s.logger.Debug("cart: rehydrated", "items", len(items))
	return items
}

// persist writes the current items. Callers hold s.mu.
func (s *Store) persist() {
	if s.storage == nil {
		return
	}
	data, err := EncodeItems(s.items)
	if err == nil {
		err = s.storage.Put(StorageKey, data)
	}
	if err != nil {
		s.logger.Error("cart: failed to save cart", "error", err)
	}
}

// changed persists and lets the overlay observe the new item count.
// Callers hold s.mu.
func (s *Store) changed() {
	s.persist()
	s.overlay.Observe(len(s.items))
}

// Add puts product in the cart with explicit options completed by
// FinalOptions. An existing line with the same product and options has its
// quantity incremented; otherwise a new line with quantity 1 is appended.
// The overlay is opened. The resulting line item is returned.
func (s *Store) Add(product catalog.Product, explicit map[string]string) LineItem {
	options := FinalOptions(product, explicit)

	s.mu.Lock()
	defer s.mu.Unlock()

	var result LineItem
	if i := indexOf(s.items, product.ID, options); i >= 0 {
		s.items[i].Quantity++
		result = s.items[i].Clone()
	} else {
		price := product.FirstPrice()
		var image string
		if len(product.Gallery) > 0 {
			image = product.Gallery[0]
		}
		item := LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: Price{
				Amount:         price.Amount,
				CurrencySymbol: price.Currency.Symbol,
			},
			ImageRef:        image,
			SelectedOptions: options,
			Quantity:        1,
		}
		s.items = append(s.items, item)
		result = item.Clone()
	}
	s.overlay.Open()
	s.changed()
	return result
}

// QuickAdd adds product with default options, as the listing's quick-shop
// button does. Out-of-stock products are refused with catalog.ErrOutOfStock.
func (s *Store) QuickAdd(product catalog.Product) (LineItem, error) {
	if !product.InStock {
		return LineItem{}, catalog.ErrOutOfStock
	}
	return s.Add(product, nil), nil
}

// Remove deletes the line whose product id and options match exactly.
// It reports whether a line was removed.
func (s *Store) Remove(productID string, options map[string]string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, productID, options)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.changed()
	return true
}

// UpdateQuantity adds delta to the matching line's quantity, removing the
// line when the result is not positive. It reports whether a line matched.
func (s *Store) UpdateQuantity(productID string, delta int, options map[string]string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, productID, options)
	if i < 0 {
		return false
	}
	if q := s.items[i].Quantity + delta; q > 0 {
		s.items[i].Quantity = q
	} else {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.changed()
	return true
}

// Clear empties the cart. The overlay is left as is, apart from the
// auto-close rule.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.changed()
}

// OpenOverlay shows the cart overlay.
func (s *Store) OpenOverlay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.Open()
	s.overlay.Observe(len(s.items))
}

// CloseOverlay hides the cart overlay.
func (s *Store) CloseOverlay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.Close()
	s.overlay.Observe(len(s.items))
}

// ToggleOverlay flips the cart overlay.
func (s *Store) ToggleOverlay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.Toggle()
	s.overlay.Observe(len(s.items))
}

// OverlayOpen reports whether the overlay is shown.
func (s *Store) OverlayOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.IsOpen()
}

// Items returns a copy of the line items in display order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// Snapshot returns a copy of the full cart state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Items: s.copyItems(), OverlayOpen: s.overlay.IsOpen()}
}

// Len returns the number of distinct line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalQuantity sums quantities over all lines.
func (s *Store) TotalQuantity() int { return s.Snapshot().TotalQuantity() }

// TotalPrice sums amount * quantity over all lines.
func (s *Store) TotalPrice() float64 { return s.Snapshot().TotalPrice() }

// CurrencySymbol returns the first line's currency symbol, or "$".
func (s *Store) CurrencySymbol() string { return s.Snapshot().CurrencySymbol() }

func (s *Store) copyItems() []LineItem {
	out := make([]LineItem, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}
