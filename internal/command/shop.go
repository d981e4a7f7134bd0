package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rugurujane/storefront/internal/config"
	"github.com/rugurujane/storefront/internal/order"
	"github.com/rugurujane/storefront/internal/tui"
)

// ShopCommand runs the interactive storefront.
type ShopCommand struct {
	*BaseCommand
	cfg   *config.Config
	flags commonFlags

	// isTerminal and run are replaced in tests.
	isTerminal func() bool
	run        func(m tea.Model, stdout io.Writer) error
}

// NewShopCommand creates the shop command.
func NewShopCommand(cfg *config.Config) *ShopCommand {
	return &ShopCommand{
		BaseCommand: NewBaseCommand("shop", "Browse the catalog and manage your cart interactively", "shop"),
		cfg:         cfg,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		run: func(m tea.Model, stdout io.Writer) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(stdout)).Run()
			return err
		},
	}
}

func (c *ShopCommand) SetupFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *ShopCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return errors.New("unexpected arguments")
	}
	if !c.isTerminal() {
		return errors.New("shop needs an interactive terminal; use the catalog and cart commands instead")
	}

	rt, err := newRuntime(c.cfg, c.flags, stderr, true)
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

	model := tui.New(ctx, tui.Options{
		Catalog:   rt.client,
		Cart:      cs.Store,
		Submitter: order.NewSubmitter(rt.client, cs.Store, rt.logger),
		Locale:    rt.settings.CurrencyLocale,
		Logger:    rt.logger,
	})
	rt.logger.Info("shop started", "session", cs.ID, "endpoint", rt.client.Endpoint())
	if err := c.run(model, stdout); err != nil {
		return fmt.Errorf("storefront UI failed: %w", err)
	}
	return nil
}
