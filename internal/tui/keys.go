package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	Open         key.Binding
	QuickAdd     key.Binding
	Back         key.Binding
	PrevValue    key.Binding
	NextValue    key.Binding
	PrevImage    key.Binding
	NextImage    key.Binding
	AddToCart    key.Binding
	ToggleCart   key.Binding
	Increase     key.Binding
	Decrease     key.Binding
	Remove       key.Binding
	PlaceOrder   key.Binding
	Dismiss      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextCategory: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
		PrevCategory: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev category")),
		Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		QuickAdd:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "quick add")),
		Back:         key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		PrevValue:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev value")),
		NextValue:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next value")),
		PrevImage:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev image")),
		NextImage:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next image")),
		AddToCart:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
		ToggleCart:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cart")),
		Increase:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
		Decrease:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "less")),
		Remove:       key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		PlaceOrder:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "place order")),
		Dismiss:      key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "dismiss")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// contextKeys adapts the bindings active in the current view to help.KeyMap.
type contextKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k contextKeys) ShortHelp() []key.Binding  { return k.short }
func (k contextKeys) FullHelp() [][]key.Binding { return k.full }

func (m Model) helpKeys() contextKeys {
	k := m.keys
	switch {
	case m.notice != "":
		return contextKeys{short: []key.Binding{k.Dismiss, k.Quit}}
	case m.cart.OverlayOpen():
		short := []key.Binding{k.Up, k.Down, k.Increase, k.Decrease, k.Remove, k.PlaceOrder, k.ToggleCart, k.Quit}
		return contextKeys{short: short, full: [][]key.Binding{short}}
	case m.screen == screenDetail:
		short := []key.Binding{k.Up, k.Down, k.PrevValue, k.NextValue, k.PrevImage, k.NextImage, k.AddToCart, k.Back, k.ToggleCart, k.Quit}
		return contextKeys{short: short[6:], full: [][]key.Binding{short[:4], short[4:6], short[6:]}}
	default:
		short := []key.Binding{k.Up, k.Down, k.NextCategory, k.PrevCategory, k.Open, k.QuickAdd, k.ToggleCart, k.Help, k.Quit}
		return contextKeys{short: []key.Binding{k.Open, k.QuickAdd, k.ToggleCart, k.Help, k.Quit}, full: [][]key.Binding{short[:4], short[4:]}}
	}
}
