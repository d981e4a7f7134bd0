package command

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rugurujane/storefront/internal/cart"
	"github.com/rugurujane/storefront/internal/catalog"
	"github.com/rugurujane/storefront/internal/config"
)

// CartCommand operates on the session cart.
type CartCommand struct {
	*BaseCommand
	cfg   *config.Config
	flags commonFlags
}

// NewCartCommand creates the cart command.
func NewCartCommand(cfg *config.Config) *CartCommand {
	return &CartCommand{
		BaseCommand: NewBaseCommand("cart", "Show and edit the session cart",
			"cart [show | add <slug> [attr=value...] | remove <slug> [attr=value...] | update <slug> <delta> [attr=value...] | clear]"),
		cfg: cfg,
	}
}

func (c *CartCommand) SetupFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *CartCommand) Execute(args []string, stdout, stderr io.Writer) error {
	sub := "show"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
		args = args[1:]
	}

	fs := flag.NewFlagSet("cart-"+sub, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: storefront %s\n", c.Usage())
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			fs.Usage()
			return nil
		}
		return err
	}
	args = fs.Args()

	switch sub {
	case "show", "add", "remove", "update", "clear":
	default:
		return fmt.Errorf("unknown subcommand: %s", sub)
	}

	rt, err := newRuntime(c.cfg, c.flags, stderr, false)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	cs, err := rt.openCart()
	if err != nil {
		return err
	}
	defer func() { _ = cs.Close() }()

	switch sub {
	case "show":
		if len(args) > 0 {
			return fmt.Errorf("unexpected arguments: %v", args)
		}
		return c.show(rt, cs.Store, stdout)
	case "clear":
		if len(args) > 0 {
			return fmt.Errorf("unexpected arguments: %v", args)
		}
		cs.Store.Clear()
		_, _ = fmt.Fprintln(stdout, "Cart cleared")
		return nil
	case "add":
		return c.add(rt, cs.Store, args, stdout)
	case "remove":
		return c.remove(rt, cs.Store, args, stdout)
	default:
		return c.update(rt, cs.Store, args, stdout)
	}
}

func (c *CartCommand) show(rt *runtime, store *cart.Store, w io.Writer) error {
	state := store.Snapshot()
	if len(state.Items) == 0 {
		_, _ = fmt.Fprintln(w, "Cart is empty")
		return nil
	}
	_, _ = fmt.Fprintf(w, "My Bag, %s\n", cart.CountLabel(state.TotalQuantity()))
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, it := range state.Items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\tx%d\t%s\n",
			it.Name, formatOptions(it),
			it.Quantity,
			rt.formatPrice(it.UnitPrice.CurrencySymbol, it.LineTotal()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Total: %s\n", rt.formatPrice(state.CurrencySymbol(), state.TotalPrice()))
	return nil
}

func (c *CartCommand) add(rt *runtime, store *cart.Store, args []string, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("add requires a product slug")
	}
	explicit, err := parseOptions(args[1:])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()
	p, err := rt.product(ctx, args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if !p.InStock {
		return fmt.Errorf("%s: %w", p.Name, catalog.ErrOutOfStock)
	}
	explicit, err = validateOptions(p, explicit)
	if err != nil {
		return err
	}

	item := store.Add(p, explicit)
	_, _ = fmt.Fprintf(w, "Added %s (quantity %d)\n", strings.TrimSpace(item.Name+" "+formatOptions(item)), item.Quantity)
	return nil
}

func (c *CartCommand) remove(rt *runtime, store *cart.Store, args []string, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("remove requires a product slug")
	}
	p, options, err := c.address(rt, args[0], args[1:])
	if err != nil {
		return err
	}
	if !store.Remove(p.ID, options) {
		_, _ = fmt.Fprintf(w, "%s is not in the cart\n", p.Name)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Removed %s\n", p.Name)
	return nil
}

func (c *CartCommand) update(rt *runtime, store *cart.Store, args []string, w io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("update requires a product slug and a quantity delta")
	}
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity delta %q: %w", args[1], err)
	}
	p, options, err := c.address(rt, args[0], args[2:])
	if err != nil {
		return err
	}
	if !store.UpdateQuantity(p.ID, delta, options) {
		_, _ = fmt.Fprintf(w, "%s is not in the cart\n", p.Name)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Updated %s\n", p.Name)
	return nil
}

// address resolves the product behind slug and completes the given options
// with the defaults Add would have applied, so a line can be named the way
// `cart show` prints it.
func (c *CartCommand) address(rt *runtime, slug string, optionArgs []string) (catalog.Product, map[string]string, error) {
	explicit, err := parseOptions(optionArgs)
	if err != nil {
		return catalog.Product{}, nil, err
	}
	ctx, cancel := commandContext()
	defer cancel()
	p, err := rt.product(ctx, slug)
	if err != nil {
		return catalog.Product{}, nil, fmt.Errorf("%s: %w", slug, err)
	}
	explicit, err = validateOptions(p, explicit)
	if err != nil {
		return catalog.Product{}, nil, err
	}
	return p, cart.FinalOptions(p, explicit), nil
}

// parseOptions parses attr=value arguments.
func parseOptions(args []string) (map[string]string, error) {
	options := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid option %q: expected attr=value", arg)
		}
		options[name] = value
	}
	return options, nil
}

// validateOptions checks every option names a declared attribute of p and
// one of its values, and returns the options keyed by attribute id.
func validateOptions(p catalog.Product, options map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(options))
	for name, value := range options {
		attr, ok := p.Attribute(name)
		if !ok {
			return nil, fmt.Errorf("%s has no attribute %q (attributes: %s)", p.Name, name, productAttrNames(p))
		}
		if !attr.HasValue(value) {
			return nil, fmt.Errorf("%q is not a valid %s for %s", value, name, p.Name)
		}
		if prev, dup := out[attr.ID]; dup && prev != value {
			return nil, fmt.Errorf("%s selected twice for %s", attr.Name, p.Name)
		}
		out[attr.ID] = value
	}
	return out, nil
}

// formatOptions renders selected options as "(Size: M, Color: #000)".
func formatOptions(it cart.LineItem) string {
	names := it.OptionNames()
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+it.SelectedOptions[name])
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
