package command

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/rugurujane/storefront/internal/config"
	"github.com/rugurujane/storefront/internal/order"
)

// OrderCommand places the session cart as an order.
type OrderCommand struct {
	*BaseCommand
	cfg   *config.Config
	flags commonFlags
}

// NewOrderCommand creates the order command.
func NewOrderCommand(cfg *config.Config) *OrderCommand {
	return &OrderCommand{
		BaseCommand: NewBaseCommand("order", "Place the session cart as an order", "order"),
		cfg:         cfg,
	}
}

func (c *OrderCommand) SetupFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *OrderCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return errors.New("unexpected arguments")
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

	ctx, cancel := commandContext()
	defer cancel()

	submitter := order.NewSubmitter(rt.client, cs.Store, rt.logger)
	snapshot := cs.Store.Snapshot()
	conf, err := submitter.Submit(ctx, snapshot)
	if errors.Is(err, order.ErrEmptyCart) {
		_, _ = fmt.Fprintln(stdout, "Cart is empty, nothing to order")
		return nil
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, submitter.ErrorMessage())
		return err
	}

	_, _ = fmt.Fprintln(stdout, submitter.Notification())
	if conf != nil {
		_, _ = fmt.Fprintf(stdout, "Order ID: %s\n", conf.ID)
		_, _ = fmt.Fprintf(stdout, "Total: %s\n", rt.formatPrice(snapshot.CurrencySymbol(), conf.TotalPrice))
	}
	return nil
}
