package command

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rugurujane/storefront/internal/catalog"
	"github.com/rugurujane/storefront/internal/config"
)

// ProductCommand shows one product: prices, attributes and gallery.
type ProductCommand struct {
	*BaseCommand
	cfg   *config.Config
	flags commonFlags
}

// NewProductCommand creates the product command.
func NewProductCommand(cfg *config.Config) *ProductCommand {
	return &ProductCommand{
		BaseCommand: NewBaseCommand("product", "Show product details", "product <slug>"),
		cfg:         cfg,
	}
}

func (c *ProductCommand) SetupFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *ProductCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		_, _ = fmt.Fprintf(stderr, "Usage: storefront %s\n", c.Usage())
		return fmt.Errorf("product requires exactly one slug")
	}

	rt, err := newRuntime(c.cfg, c.flags, stderr, false)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	ctx, cancel := commandContext()
	defer cancel()

	p, err := rt.product(ctx, args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	price := p.FirstPrice()
	_, _ = fmt.Fprintf(stdout, "%s\n", p.Name)
	_, _ = fmt.Fprintf(stdout, "Category: %s\n", p.Category)
	_, _ = fmt.Fprintf(stdout, "Price: %s\n", rt.formatPrice(price.Currency.Symbol, price.Amount))
	_, _ = fmt.Fprintf(stdout, "Stock: %s\n", stockLabel(p.InStock))
	for _, a := range p.Attributes {
		values := make([]string, 0, len(a.Items))
		for _, item := range a.Items {
			values = append(values, item.Value)
		}
		label := a.Name
		if a.ID != a.Name {
			label += " [" + a.ID + "]"
		}
		_, _ = fmt.Fprintf(stdout, "%s: %s\n", label, strings.Join(values, ", "))
	}
	if len(p.Gallery) > 0 {
		_, _ = fmt.Fprintln(stdout, "Gallery:")
		for i, img := range p.Gallery {
			_, _ = fmt.Fprintf(stdout, "  %d. %s\n", i+1, img)
		}
	}
	if d := p.PlainDescription(); d != "" {
		_, _ = fmt.Fprintf(stdout, "\n%s\n", d)
	}
	return nil
}

// productAttrNames lists the product's attribute ids for error messages.
func productAttrNames(p catalog.Product) string {
	names := make([]string, 0, len(p.Attributes))
	for _, a := range p.Attributes {
		names = append(names, a.ID)
	}
	return strings.Join(names, ", ")
}
