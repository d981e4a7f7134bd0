package command

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rugurujane/storefront/internal/catalog"
	"github.com/rugurujane/storefront/internal/config"
)

// CatalogCommand lists products, optionally narrowed by category and a
// filter expression.
type CatalogCommand struct {
	*BaseCommand
	cfg      *config.Config
	flags    commonFlags
	category string
	where    string
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(cfg *config.Config) *CatalogCommand {
	return &CatalogCommand{
		BaseCommand: NewBaseCommand("catalog", "List products", "catalog [--category name] [--where expr]"),
		cfg:         cfg,
	}
}

func (c *CatalogCommand) SetupFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
	fs.StringVar(&c.category, "category", "", "Only list products in this category ('all' lists everything)")
	fs.StringVar(&c.where, "where", "", "Filter expression, e.g. 'inStock && price < 100'")
}

func (c *CatalogCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}

	category, where := c.category, c.where
	if c.cfg != nil {
		if v, ok := c.cfg.GetCommandOption("catalog", "category"); ok && category == "" {
			category = v
		}
		if v, ok := c.cfg.GetCommandOption("catalog", "where"); ok && where == "" {
			where = v
		}
	}

	filter, err := catalog.CompileFilter(where)
	if err != nil {
		return err
	}

	rt, err := newRuntime(c.cfg, c.flags, stderr, false)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	ctx, cancel := commandContext()
	defer cancel()

	products, err := rt.products(ctx)
	if err != nil {
		return err
	}
	products, err = filter.Apply(catalog.ByCategory(products, category))
	if err != nil {
		return err
	}

	if len(products) == 0 {
		_, _ = fmt.Fprintln(stdout, "No products found")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SLUG\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		price := p.FirstPrice()
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			catalog.Slug(p), p.Name, p.Category,
			rt.formatPrice(price.Currency.Symbol, price.Amount),
			stockLabel(p.InStock))
	}
	return w.Flush()
}

func stockLabel(inStock bool) string {
	if inStock {
		return "in stock"
	}
	return "out of stock"
}
