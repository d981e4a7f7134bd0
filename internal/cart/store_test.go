package cart

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rugurujane/storefront/internal/catalog"
	"github.com/rugurujane/storefront/internal/storage"
)

type mapStorage struct {
	values  map[string]json.RawMessage
	puts    int
	failPut bool
	failGet bool
}

func newMapStorage() *mapStorage {
	return &mapStorage{values: map[string]json.RawMessage{}}
}

func (m *mapStorage) Get(key string) (json.RawMessage, error) {
	if m.failGet {
		return nil, errors.New("read failed")
	}
	return m.values[key], nil
}

func (m *mapStorage) Put(key string, value json.RawMessage) error {
	m.puts++
	if m.failPut {
		return errors.New("disk full")
	}
	m.values[key] = append(json.RawMessage(nil), value...)
	return nil
}

func shirt() catalog.Product {
	return catalog.Product{
		ID:      "shirt",
		Name:    "Shirt",
		InStock: true,
		Gallery: []string{"shirt-1.jpg", "shirt-2.jpg"},
		Prices:  []catalog.Price{{Amount: 10, Currency: catalog.Currency{Label: "USD", Symbol: "$"}}},
		Attributes: []catalog.Attribute{
			{ID: "Size", Items: []catalog.AttributeItem{{Value: "S"}, {Value: "M"}}},
		},
	}
}

func mug() catalog.Product {
	return catalog.Product{
		ID:      "mug",
		Name:    "Mug",
		InStock: true,
		Prices:  []catalog.Price{{Amount: 2.5, Currency: catalog.Currency{Label: "EUR", Symbol: "€"}}},
	}
}

func TestStore_AddMergesOnMatchingOptions(t *testing.T) {
	s := NewStore(newMapStorage())

	first := s.Add(shirt(), map[string]string{"Size": "M"})
	assert.Equal(t, 1, first.Quantity)
	assert.Equal(t, "shirt-1.jpg", first.ImageRef)
	assert.Equal(t, Price{Amount: 10, CurrencySymbol: "$"}, first.UnitPrice)

	second := s.Add(shirt(), map[string]string{"Size": "M"})
	assert.Equal(t, 2, second.Quantity)
	assert.Equal(t, 1, s.Len())

	s.Add(shirt(), map[string]string{"Size": "S"})
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, s.TotalQuantity())
}

func TestStore_AddDefaultsUnselectedAttributes(t *testing.T) {
	s := NewStore(nil)

	s.Add(shirt(), nil)
	s.Add(shirt(), map[string]string{"Size": "S"})

	items := s.Items()
	require.Len(t, items, 1, "defaulted options equal explicit first value")
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, map[string]string{"Size": "S"}, items[0].SelectedOptions)
}

func TestStore_AddDefaultsKeyedByAttributeID(t *testing.T) {
	ps5 := catalog.Product{
		ID:      "ps-5",
		Name:    "PlayStation 5",
		InStock: true,
		Attributes: []catalog.Attribute{{
			ID:    "color",
			Items: []catalog.AttributeItem{{Value: "black"}, {Value: "white"}},
		}},
	}
	s := NewStore(nil)

	first := s.Add(ps5, nil)
	assert.Equal(t, map[string]string{"color": "black"}, first.SelectedOptions)

	second := s.Add(ps5, map[string]string{"color": "black"})
	assert.Equal(t, 2, second.Quantity)
	require.Len(t, s.Items(), 1)

	ps5.Attributes[0].Name = "Colour"
	s.Add(ps5, map[string]string{"color": "white"})
	s.Add(ps5, nil)
	items := s.Items()
	require.Len(t, items, 2, "display name does not change the option key")
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, map[string]string{"color": "white"}, items[1].SelectedOptions)
}

func TestStore_AddOpensOverlay(t *testing.T) {
	s := NewStore(nil)
	assert.False(t, s.OverlayOpen())
	s.Add(mug(), nil)
	assert.True(t, s.OverlayOpen())
}

func TestStore_QuickAdd(t *testing.T) {
	s := NewStore(nil)

	_, err := s.QuickAdd(mug())
	require.NoError(t, err)

	soldOut := mug()
	soldOut.InStock = false
	_, err = s.QuickAdd(soldOut)
	assert.ErrorIs(t, err, catalog.ErrOutOfStock)
	assert.Equal(t, 1, s.TotalQuantity())
}

func TestStore_RemoveRequiresExactOptions(t *testing.T) {
	s := NewStore(nil)
	s.Add(shirt(), map[string]string{"Size": "M"})

	assert.False(t, s.Remove("shirt", map[string]string{"Size": "S"}))
	assert.False(t, s.Remove("shirt", nil))
	assert.False(t, s.Remove("other", map[string]string{"Size": "M"}))
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Remove("shirt", map[string]string{"Size": "M"}))
	assert.Zero(t, s.Len())
}

func TestStore_UpdateQuantity(t *testing.T) {
	s := NewStore(nil)
	opts := map[string]string{"Size": "M"}
	s.Add(shirt(), opts)
	s.Add(mug(), nil)

	assert.True(t, s.UpdateQuantity("shirt", 4, opts))
	assert.Equal(t, 5, s.Items()[0].Quantity)

	assert.True(t, s.UpdateQuantity("shirt", -2, opts))
	assert.Equal(t, 3, s.Items()[0].Quantity)

	assert.False(t, s.UpdateQuantity("shirt", 1, map[string]string{"Size": "S"}))

	assert.True(t, s.UpdateQuantity("shirt", -10, opts))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "mug", items[0].ProductID)
}

func TestStore_Totals(t *testing.T) {
	s := NewStore(nil)
	assert.Equal(t, "$", s.CurrencySymbol())
	assert.Zero(t, s.TotalPrice())

	s.Add(mug(), nil)
	s.Add(mug(), nil)
	s.Add(shirt(), nil)

	assert.Equal(t, "€", s.CurrencySymbol(), "first item's symbol")
	assert.InDelta(t, 15.0, s.TotalPrice(), 1e-9)
	assert.Equal(t, 3, s.TotalQuantity())
}

func TestStore_ClearKeepsOverlayUnlessAutoClose(t *testing.T) {
	s := NewStore(nil)
	s.OpenOverlay()
	s.Clear()
	assert.True(t, s.OverlayOpen(), "empty cart cleared while open stays open")

	s.CloseOverlay()
	s.Add(mug(), nil)
	s.Clear()
	assert.False(t, s.OverlayOpen(), "overlay closes when a non-empty cart empties")
}

func TestStore_RemovingLastItemClosesOverlay(t *testing.T) {
	s := NewStore(nil)
	s.Add(mug(), nil)
	s.UpdateQuantity("mug", 1, map[string]string{})
	require.True(t, s.OverlayOpen())

	s.UpdateQuantity("mug", -1, map[string]string{})
	assert.True(t, s.OverlayOpen())
	s.UpdateQuantity("mug", -1, map[string]string{})
	assert.False(t, s.OverlayOpen())
}

func TestStore_ToggleAndClose(t *testing.T) {
	s := NewStore(nil)
	s.ToggleOverlay()
	assert.True(t, s.OverlayOpen())
	s.ToggleOverlay()
	assert.False(t, s.OverlayOpen())
	s.OpenOverlay()
	s.CloseOverlay()
	assert.False(t, s.OverlayOpen())
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Add(shirt(), nil)

	snap := s.Snapshot()
	snap.Items[0].Quantity = 99
	snap.Items[0].SelectedOptions["Size"] = "XXL"

	items := s.Items()
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "S", items[0].SelectedOptions["Size"])
	assert.True(t, snap.OverlayOpen)
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	st := newMapStorage()
	s := NewStore(st)

	s.Add(shirt(), map[string]string{"Size": "M"})
	s.UpdateQuantity("shirt", 2, map[string]string{"Size": "M"})
	s.Remove("missing", nil)
	assert.Equal(t, 2, st.puts, "no-op removal does not write")

	var saved []map[string]any
	require.NoError(t, json.Unmarshal(st.values[StorageKey], &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, "shirt", saved[0]["productId"])
	assert.Equal(t, float64(3), saved[0]["quantity"])
	assert.Equal(t, map[string]any{"amount": float64(10), "currencySymbol": "$"}, saved[0]["unitPrice"])
	assert.Equal(t, map[string]any{"Size": "M"}, saved[0]["selectedOptions"])

	s.Clear()
	assert.JSONEq(t, `[]`, string(st.values[StorageKey]))
}

func TestStore_Rehydrates(t *testing.T) {
	st := newMapStorage()
	NewStore(st).Add(shirt(), map[string]string{"Size": "M"})

	restored := NewStore(st)
	items := restored.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Shirt", items[0].Name)
	assert.False(t, restored.OverlayOpen(), "overlay state is not persisted")
}

func TestStore_RehydrateFallsBackToEmpty(t *testing.T) {
	tests := map[string]string{
		"malformed":       `{not json`,
		"wrong shape":     `{"productId":"x"}`,
		"missing id":      `[{"quantity":1}]`,
		"zero quantity":   `[{"productId":"x","quantity":0}]`,
		"negative quantity": `[{"productId":"x","quantity":-1}]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			st := newMapStorage()
			st.values[StorageKey] = json.RawMessage(raw)
			assert.Zero(t, NewStore(st).Len())
		})
	}

	st := newMapStorage()
	st.failGet = true
	assert.Zero(t, NewStore(st).Len())
}

func TestStore_RehydrateMergesDuplicates(t *testing.T) {
	st := newMapStorage()
	st.values[StorageKey] = json.RawMessage(`[
		{"productId":"x","quantity":1,"selectedOptions":{"Size":"M"}},
		{"productId":"y","quantity":1},
		{"productId":"x","quantity":2,"selectedOptions":{"Size":"M"}}
	]`)
	items := NewStore(st).Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.NotNil(t, items[1].SelectedOptions)
}

func TestStore_SaveFailureDoesNotPropagate(t *testing.T) {
	st := newMapStorage()
	st.failPut = true
	s := NewStore(st)

	item := s.Add(mug(), nil)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 1, s.Len())
}

func TestStore_WithSessionEntries(t *testing.T) {
	storage.ClearAllInMemorySessions()
	t.Cleanup(storage.ClearAllInMemorySessions)

	backend, err := storage.NewInMemoryBackend("cart-session")
	require.NoError(t, err)
	entries := storage.NewEntries(backend, "cart-session")

	NewStore(entries).Add(mug(), nil)

	raw, err := entries.Get(StorageKey)
	require.NoError(t, err)
	items, err := DecodeItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, NewStore(entries).Len())
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "0 Items", CountLabel(0))
	assert.Equal(t, "1 Item", CountLabel(1))
	assert.Equal(t, "7 Items", CountLabel(7))
}
