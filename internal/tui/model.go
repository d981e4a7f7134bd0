// Package tui is the interactive storefront: a category listing with quick
// add, a product page with attribute selection, and the cart overlay from
// which orders are placed.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rugurujane/storefront/internal/cart"
	"github.com/rugurujane/storefront/internal/catalog"
	"github.com/rugurujane/storefront/internal/order"
)

// Catalog fetches the products to list. *graphql.Client satisfies it.
type Catalog interface {
	Products(ctx context.Context) ([]catalog.Product, error)
}

// Options wires a Model to its collaborators.
type Options struct {
	Catalog   Catalog
	Cart      *cart.Store
	Submitter *order.Submitter
	// Locale is a BCP 47 tag used to format prices.
	Locale string
	Logger *slog.Logger
}

type screen int

const (
	screenListing screen = iota
	screenDetail
)

type productsMsg struct {
	products []catalog.Product
	err      error
}

type orderMsg struct {
	confirmation *order.Confirmation
	err          error
}

// Model is the bubbletea model of the storefront.
type Model struct {
	ctx       context.Context
	catalog   Catalog
	cart      *cart.Store
	submitter *order.Submitter
	locale    string
	logger    *slog.Logger

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles

	width, height int

	loading    bool
	loadErr    error
	products   []catalog.Product
	categories []string
	category   int
	visible    []catalog.Product
	cursor     int
	offset     int

	screen     screen
	detail     catalog.Product
	selected   map[string]string
	attrCursor int
	image      int

	line       int
	submitting bool
	status     string
	statusErr  bool
	notice     string
}

// New creates the storefront model. ctx bounds the catalog fetch and order
// submissions.
func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:        ctx,
		catalog:    opts.Catalog,
		cart:       opts.Cart,
		submitter:  opts.Submitter,
		locale:     opts.Locale,
		logger:     logger,
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		styles:     DefaultStyles(),
		loading:    true,
		categories: []string{"all"},
	}
}

// Init starts the catalog fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchProducts(), m.spinner.Tick)
}

func (m Model) fetchProducts() tea.Cmd {
	c, ctx := m.catalog, m.ctx
	return func() tea.Msg {
		products, err := c.Products(ctx)
		return productsMsg{products: products, err: err}
	}
}

func (m Model) placeOrder(snapshot cart.State) tea.Cmd {
	s, ctx := m.submitter, m.ctx
	return func() tea.Msg {
		conf, err := s.Submit(ctx, snapshot)
		return orderMsg{confirmation: conf, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		return m, nil

	case productsMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			m.logger.Error("tui: failed to load products", "error", msg.err)
			return m, nil
		}
		m.products = msg.products
		m.categories = catalog.Categories(msg.products)
		m.category = 0
		m.applyCategory()
		m.logger.Debug("tui: products loaded", "count", len(msg.products))
		return m, nil

	case orderMsg:
		m.submitting = false
		switch {
		case errors.Is(msg.err, order.ErrEmptyCart):
			m.setStatus("Your bag is empty", true)
		case msg.err != nil:
			m.setStatus(m.submitter.ErrorMessage(), true)
		default:
			m.notice = m.submitter.Notification()
			if msg.confirmation != nil && msg.confirmation.ID != "" {
				m.notice += fmt.Sprintf(" Order %s.", msg.confirmation.ID)
			}
			m.line = 0
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.notice != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.submitter.Dismiss()
			m.notice = ""
		}
		return m, nil
	}
	m.status = ""

	// Submit clears the whole cart on success, so the cart stays frozen
	// until the order settles.
	if m.submitting && m.changesCart(msg) {
		m.setStatus("Placing order, the bag is locked", true)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.ToggleCart):
		m.cart.ToggleOverlay()
		m.clampLine()
		return m, nil
	}

	if m.cart.OverlayOpen() {
		return m.updateOverlay(msg)
	}
	if m.screen == screenDetail {
		return m.updateDetail(msg), nil
	}
	return m.updateListing(msg), nil
}

func (m Model) updateListing(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.NextCategory):
		m.category = (m.category + 1) % len(m.categories)
		m.applyCategory()
	case key.Matches(msg, m.keys.PrevCategory):
		m.category = (m.category - 1 + len(m.categories)) % len(m.categories)
		m.applyCategory()
	case key.Matches(msg, m.keys.Open):
		if p, ok := m.current(); ok {
			m.openDetail(p)
		}
	case key.Matches(msg, m.keys.QuickAdd):
		p, ok := m.current()
		if !ok {
			break
		}
		item, err := m.cart.QuickAdd(p)
		if err != nil {
			m.setStatus(fmt.Sprintf("%s is out of stock", p.Name), true)
			break
		}
		m.line = m.lineOf(item)
	}
	m.scrollToCursor()
	return m
}

func (m Model) updateDetail(msg tea.KeyMsg) Model {
	attrs := m.detail.Attributes
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenListing
	case key.Matches(msg, m.keys.Up):
		if m.attrCursor > 0 {
			m.attrCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.attrCursor < len(attrs)-1 {
			m.attrCursor++
		}
	case key.Matches(msg, m.keys.PrevValue):
		m.cycleValue(-1)
	case key.Matches(msg, m.keys.NextValue):
		m.cycleValue(1)
	case key.Matches(msg, m.keys.PrevImage):
		m.image = catalog.GalleryIndex(m.image, len(m.detail.Gallery), -1)
	case key.Matches(msg, m.keys.NextImage):
		m.image = catalog.GalleryIndex(m.image, len(m.detail.Gallery), 1)
	case key.Matches(msg, m.keys.AddToCart):
		if !m.detail.InStock {
			m.setStatus(fmt.Sprintf("%s is out of stock", m.detail.Name), true)
			break
		}
		if missing := m.missingSelections(); len(missing) > 0 {
			m.setStatus("Select "+strings.Join(missing, ", ")+" first", true)
			break
		}
		item := m.cart.Add(m.detail, m.selected)
		m.line = m.lineOf(item)
	}
	return m
}

func (m Model) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.cart.Items()
	current := func() (cart.LineItem, bool) {
		if m.line < 0 || m.line >= len(items) {
			return cart.LineItem{}, false
		}
		return items[m.line], true
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.cart.CloseOverlay()
	case key.Matches(msg, m.keys.Up):
		if m.line > 0 {
			m.line--
		}
	case key.Matches(msg, m.keys.Down):
		if m.line < len(items)-1 {
			m.line++
		}
	case key.Matches(msg, m.keys.Increase):
		if it, ok := current(); ok {
			m.cart.UpdateQuantity(it.ProductID, 1, it.SelectedOptions)
		}
	case key.Matches(msg, m.keys.Decrease):
		if it, ok := current(); ok {
			m.cart.UpdateQuantity(it.ProductID, -1, it.SelectedOptions)
		}
	case key.Matches(msg, m.keys.Remove):
		if it, ok := current(); ok {
			m.cart.Remove(it.ProductID, it.SelectedOptions)
		}
	case key.Matches(msg, m.keys.PlaceOrder):
		if !m.canPlaceOrder() {
			return m, nil
		}
		m.submitting = true
		return m, tea.Batch(m.placeOrder(m.cart.Snapshot()), m.spinner.Tick)
	}
	m.clampLine()
	return m, nil
}

func (m Model) changesCart(msg tea.KeyMsg) bool {
	return key.Matches(msg, m.keys.QuickAdd, m.keys.AddToCart, m.keys.Increase, m.keys.Decrease, m.keys.Remove)
}

func (m Model) canPlaceOrder() bool {
	return m.cart.Len() > 0 && !m.submitting && !m.submitter.Pending()
}

func (m *Model) applyCategory() {
	m.visible = catalog.ByCategory(m.products, m.categories[m.category])
	m.cursor, m.offset = 0, 0
}

func (m Model) current() (catalog.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return catalog.Product{}, false
	}
	return m.visible[m.cursor], true
}

func (m *Model) openDetail(p catalog.Product) {
	m.screen = screenDetail
	m.detail = p
	m.selected = make(map[string]string, len(p.Attributes))
	m.attrCursor = 0
	m.image = 0
}

// cycleValue moves the selection of the attribute under the cursor. With no
// selection yet, moving forward picks the first value and back the last.
func (m *Model) cycleValue(step int) {
	if m.attrCursor >= len(m.detail.Attributes) {
		return
	}
	attr := m.detail.Attributes[m.attrCursor]
	n := len(attr.Items)
	if n == 0 {
		return
	}
	i := -1
	if v, ok := m.selected[attr.ID]; ok {
		for j, item := range attr.Items {
			if item.Value == v {
				i = j
				break
			}
		}
	}
	switch {
	case i < 0 && step > 0:
		i = 0
	case i < 0:
		i = n - 1
	default:
		i = ((i+step)%n + n) % n
	}
	m.selected[attr.ID] = attr.Items[i].Value
}

func (m Model) missingSelections() []string {
	var missing []string
	for _, a := range m.detail.Attributes {
		if _, ok := m.selected[a.ID]; !ok {
			missing = append(missing, a.Name)
		}
	}
	return missing
}

// lineOf returns the overlay row of item.
func (m Model) lineOf(item cart.LineItem) int {
	for i, it := range m.cart.Items() {
		if it.ProductID == item.ProductID && cart.OptionsMatch(it.SelectedOptions, item.SelectedOptions) {
			return i
		}
	}
	return 0
}

func (m *Model) clampLine() {
	n := m.cart.Len()
	if m.line >= n {
		m.line = n - 1
	}
	if m.line < 0 {
		m.line = 0
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// listHeight is the number of product rows that fit on screen.
func (m Model) listHeight() int {
	if m.height <= 0 {
		return len(m.visible)
	}
	return max(m.height-6, 3)
}

func (m *Model) scrollToCursor() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if h > 0 && m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if maxOffset := max(len(m.visible)-h, 0); m.offset > maxOffset {
		m.offset = maxOffset
	}
}
