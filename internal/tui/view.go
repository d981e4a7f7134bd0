package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rugurujane/storefront/internal/cart"
	"github.com/rugurujane/storefront/internal/catalog"
)

const overlayWidth = 40

// View renders the header, the current page, the cart overlay when open,
// a status line and key help.
func (m Model) View() string {
	var body string
	switch {
	case m.notice != "":
		body = m.styles.Overlay.Render(m.styles.Success.Render(m.notice))
	case m.loading:
		body = m.spinner.View() + " Loading products..."
	case m.loadErr != nil:
		body = m.styles.Error.Render("Failed to load products: " + m.loadErr.Error())
	case m.screen == screenDetail:
		body = m.detailView()
	default:
		body = m.listingView()
	}

	if m.notice == "" && m.cart.OverlayOpen() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.overlayView())
	}

	sections := []string{m.headerView(), body}
	if m.status != "" {
		style := m.styles.Success
		if m.statusErr {
			style = m.styles.Error
		}
		sections = append(sections, style.Render(m.status))
	}
	sections = append(sections, m.help.View(m.helpKeys()))
	return strings.Join(sections, "\n\n")
}

func (m Model) headerView() string {
	cats := make([]string, 0, len(m.categories))
	for i, c := range m.categories {
		label := strings.ToUpper(c)
		if i == m.category {
			cats = append(cats, m.styles.ActiveCat.Render(label))
		} else {
			cats = append(cats, m.styles.Category.Render(label))
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, append([]string{m.styles.Title.Render("STOREFRONT"), "  "}, cats...)...)
	right := m.styles.CartBadge.Render("Cart: " + cart.CountLabel(m.cart.TotalQuantity()))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) listingView() string {
	if len(m.visible) == 0 {
		return m.styles.Muted.Render("No products in this category")
	}

	width := m.width
	if m.cart.OverlayOpen() {
		width -= overlayWidth + 4
	}
	nameWidth := max(width-32, 12)

	h := m.listHeight()
	end := min(m.offset+h, len(m.visible))
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		p := m.visible[i]
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("› ")
		}
		price := p.FirstPrice()
		row := cursor + m.styles.Name.Render(padRight(truncate(p.Name, nameWidth), nameWidth)) + "  " +
			m.styles.Price.Render(padRight(m.price(price.Currency.Symbol, price.Amount), 12))
		if !p.InStock {
			row += m.styles.OutOfStock.Render("out of stock")
		}
		rows = append(rows, row)
	}
	list := strings.Join(rows, "\n")

	if len(m.visible) > h {
		bar := scrollbar{
			contentHeight:  len(m.visible),
			viewportHeight: len(rows),
			offset:         m.offset,
			thumb:          m.styles.ScrollThumb,
			track:          m.styles.ScrollTrack,
		}
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, " ", bar.View())
	}
	return list
}

func (m Model) detailView() string {
	p := m.detail
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(p.Name))
	b.WriteString("\n")
	price := p.FirstPrice()
	b.WriteString(m.styles.Price.Render(m.price(price.Currency.Symbol, price.Amount)))
	if !p.InStock {
		b.WriteString("  " + m.styles.OutOfStock.Render("out of stock"))
	}
	b.WriteString("\n\n")

	for i, a := range p.Attributes {
		cursor := "  "
		if i == m.attrCursor {
			cursor = m.styles.Cursor.Render("› ")
		}
		values := make([]string, 0, len(a.Items))
		for _, item := range a.Items {
			label := item.DisplayValue
			if a.Type == "swatch" {
				label = item.DisplayValue + " " + lipgloss.NewStyle().Foreground(lipgloss.Color(item.Value)).Render("■")
			}
			if m.selected[a.ID] == item.Value {
				values = append(values, m.styles.Selected.Render(label))
			} else {
				values = append(values, m.styles.Value.Render(label))
			}
		}
		b.WriteString(cursor + m.styles.Label.Render(strings.ToUpper(a.Name)+":") + " ")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, values...))
		b.WriteString("\n")
	}

	if n := len(p.Gallery); n > 0 {
		fmt.Fprintf(&b, "\nImage %d/%d: %s\n", m.image+1, n, p.Gallery[m.image])
	}

	b.WriteString("\n")
	if p.InStock && catalog.AllSelected(p, m.selected) {
		b.WriteString(m.styles.Button.Render("ADD TO CART"))
	} else {
		b.WriteString(m.styles.Disabled.Render("ADD TO CART"))
	}

	if d := p.PlainDescription(); d != "" {
		width := m.width
		if m.cart.OverlayOpen() {
			width -= overlayWidth + 4
		}
		style := lipgloss.NewStyle()
		if width > 20 {
			style = style.Width(width)
		}
		b.WriteString("\n\n" + style.Render(d))
	}
	return b.String()
}

func (m Model) overlayView() string {
	state := m.cart.Snapshot()
	inner := overlayWidth - 4
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("My Bag, ") + cart.CountLabel(state.TotalQuantity()))
	b.WriteString("\n")

	for i, it := range state.Items {
		b.WriteString("\n")
		cursor := "  "
		if i == m.line {
			cursor = m.styles.Cursor.Render("› ")
		}
		b.WriteString(cursor + truncate(it.Name, inner-2) + "\n")
		b.WriteString("  " + m.styles.Price.Render(m.price(it.UnitPrice.CurrencySymbol, it.UnitPrice.Amount)) + "\n")
		for _, name := range it.OptionNames() {
			b.WriteString("  " + m.styles.Muted.Render(truncate(name+": "+it.SelectedOptions[name], inner-2)) + "\n")
		}
		fmt.Fprintf(&b, "  [-] %d [+]\n", it.Quantity)
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render(padRight("Total", 8)) + m.styles.Price.Render(m.price(state.CurrencySymbol(), state.TotalPrice())))
	b.WriteString("\n\n")

	switch {
	case m.submitting:
		b.WriteString(m.spinner.View() + " Placing order...")
	case len(state.Items) == 0:
		b.WriteString(m.styles.Disabled.Render("PLACE ORDER"))
	default:
		b.WriteString(m.styles.Button.Render("PLACE ORDER"))
	}
	if msg := m.submitter.ErrorMessage(); msg != "" && !m.submitting {
		b.WriteString("\n" + m.styles.Error.Render(msg))
	}

	return m.styles.Overlay.Width(overlayWidth).Render(b.String())
}

func (m Model) price(symbol string, amount float64) string {
	return catalog.FormatPrice(symbol, amount, m.locale)
}
