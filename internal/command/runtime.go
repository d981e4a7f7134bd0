package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/rugurujane/storefront/internal/cart"
	"github.com/rugurujane/storefront/internal/catalog"
	"github.com/rugurujane/storefront/internal/config"
	"github.com/rugurujane/storefront/internal/graphql"
	"github.com/rugurujane/storefront/internal/logging"
	"github.com/rugurujane/storefront/internal/session"
	"github.com/rugurujane/storefront/internal/storage"
)

// commonFlags are registered by every command that talks to the API or the
// session cart.
type commonFlags struct {
	session  string
	store    string
	logLevel string
	logFile  string
	verbose  bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.session, "session", "", "Session ID for the cart (overrides auto-discovery)")
	fs.StringVar(&f.store, "store", "", "Storage backend to use: 'fs' or 'memory' (overrides storage.backend)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFile, "log-file", "", "Path to log file (JSON output)")
	fs.BoolVar(&f.verbose, "verbose", false, "Log to stderr")
	fs.BoolVar(&f.verbose, "v", false, "Log to stderr (short form)")
}

// runtime carries what a single command invocation needs: resolved
// settings, a logger and the API client.
type runtime struct {
	cfg      *config.Config
	flags    commonFlags
	settings config.Settings
	logger   *slog.Logger
	closeLog func() error
	client   *graphql.Client
}

func newRuntime(cfg *config.Config, flags commonFlags, stderr io.Writer, interactive bool) (*runtime, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	settings := cfg.Settings()
	if flags.store != "" {
		settings.StorageBackend = flags.store
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:       flags.logLevel,
		File:        flags.logFile,
		Verbose:     flags.verbose,
		Interactive: interactive,
		Stderr:      stderr,
	}, settings)
	if err != nil {
		return nil, err
	}

	client := graphql.NewClient(settings.APIEndpoint,
		graphql.WithTimeout(settings.APITimeout),
		graphql.WithLogger(logger),
	)

	return &runtime{
		cfg:      cfg,
		flags:    flags,
		settings: settings,
		logger:   logger,
		closeLog: closeLog,
		client:   client,
	}, nil
}

// Close flushes and closes the log file, if any.
func (r *runtime) Close() error {
	if r.closeLog == nil {
		return nil
	}
	return r.closeLog()
}

// sessionID resolves the cart session: --session, then STOREFRONT_SESSION_ID,
// then session.id from the config file, then terminal discovery.
func (r *runtime) sessionID() (id, source string, err error) {
	explicit := r.flags.session
	if explicit == "" && os.Getenv(session.EnvSessionID) == "" {
		if v, ok := r.cfg.GetGlobalOption(config.KeySessionID); ok {
			explicit = v
		}
	}
	return session.Resolve(explicit)
}

// cartSession is an open session cart. Close releases the session lock.
type cartSession struct {
	ID     string
	Source string
	Store  *cart.Store

	backend     storage.StorageBackend
	stopCleanup func()
}

func (cs *cartSession) Close() error {
	if cs.stopCleanup != nil {
		cs.stopCleanup()
	}
	return cs.backend.Close()
}

// openCart opens the session's storage and rehydrates its cart. When
// automatic cleanup is enabled, stale sessions other than this one are
// removed in the background while the cart is open.
func (r *runtime) openCart() (*cartSession, error) {
	id, source, err := r.sessionID()
	if err != nil {
		return nil, err
	}
	backend, err := storage.GetBackend(r.settings.StorageBackend, id)
	if err != nil {
		if errors.Is(err, storage.ErrWouldBlock) {
			return nil, fmt.Errorf("session %s is in use by another storefront process: %w", id, err)
		}
		return nil, fmt.Errorf("failed to open session %s: %w", id, err)
	}
	r.logger.Debug("session opened", "session", id, "source", source, "backend", r.settings.StorageBackend)

	store := cart.NewStore(storage.NewEntries(backend, id, storage.WithEntriesLogger(r.logger)), cart.WithLogger(r.logger))

	stop := func() {}
	if r.settings.StorageBackend == "fs" {
		stop = maybeStartCleanupScheduler(r.cfg, id, r.logger)
	}

	return &cartSession{
		ID:          id,
		Source:      source,
		Store:       store,
		backend:     backend,
		stopCleanup: stop,
	}, nil
}

// products fetches the catalog.
func (r *runtime) products(ctx context.Context) ([]catalog.Product, error) {
	products, err := r.client.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products from %s: %w", r.client.Endpoint(), err)
	}
	return products, nil
}

// product fetches the catalog and returns the product with the given slug.
func (r *runtime) product(ctx context.Context, slug string) (catalog.Product, error) {
	products, err := r.products(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	return catalog.FindBySlug(products, slug)
}

func (r *runtime) formatPrice(symbol string, amount float64) string {
	return catalog.FormatPrice(symbol, amount, r.settings.CurrencyLocale)
}

// commandContext is cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
