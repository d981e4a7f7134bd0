package command

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rugurujane/storefront/internal/cart"
	"github.com/rugurujane/storefront/internal/config"
	"github.com/rugurujane/storefront/internal/storage"
)

// SessionCommand inspects and prunes stored sessions (and their carts).
type SessionCommand struct {
	*BaseCommand
	cfg   *config.Config
	dry   bool
	yes   bool
	stdin io.Reader
}

// NewSessionCommand creates the session management command.
func NewSessionCommand(cfg *config.Config) *SessionCommand {
	return &SessionCommand{
		BaseCommand: NewBaseCommand("session", "Manage stored sessions", "session [id|list|clean|delete|info|path]"),
		cfg:         cfg,
		stdin:       os.Stdin,
	}
}

func (c *SessionCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.dry, "dry-run", false, "Don't actually delete; show what would be deleted")
	fs.BoolVar(&c.yes, "y", false, "Assume yes to confirmation prompts")
}

// subFlags returns a FlagSet for a subcommand whose usage is written to
// stderr only when requested.
func (c *SessionCommand) subFlags(name, usage, about string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("session-"+name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: %s %s\n\n", c.Name(), usage)
		_, _ = fmt.Fprintln(stderr, about)
		var hasFlags bool
		fs.VisitAll(func(_ *flag.Flag) { hasFlags = true })
		if hasFlags {
			_, _ = fmt.Fprintln(stderr, "\nOptions:")
			fs.SetOutput(stderr)
			fs.PrintDefaults()
			fs.SetOutput(io.Discard)
		}
	}
	return fs
}

func (c *SessionCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return c.list(stdout, "text")
	}
	sub := strings.ToLower(args[0])
	rest := args[1:]

	switch sub {
	case "id":
		fs := c.subFlags("id", "id", "Resolve and print the session id this terminal would use.", stderr)
		var local string
		fs.StringVar(&local, "session", "", "Session ID (overrides auto-discovery)")
		if done, err := parseSub(fs, rest); done {
			return err
		}
		if fs.NArg() > 0 {
			return fmt.Errorf("unexpected arguments: %v", fs.Args())
		}
		rt := &runtime{cfg: c.config(), flags: commonFlags{session: local}}
		id, source, err := rt.sessionID()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stdout, id)
		_, _ = fmt.Fprintf(stderr, "source: %s\n", source)
		return nil

	case "list":
		fs := c.subFlags("list", "list [-format text|json]", "Show all stored sessions with metadata.", stderr)
		var format string
		fs.StringVar(&format, "format", "text", "output format: text|json")
		if done, err := parseSub(fs, rest); done {
			return err
		}
		return c.list(stdout, format)

	case "clean":
		fs := c.subFlags("clean", "clean [-dry-run] [-all] [-y]", "Remove sessions according to the [sessions] retention policy.", stderr)
		var all, yesLocal bool
		fs.BoolVar(&c.dry, "dry-run", c.dry, "Don't actually delete; show what would be deleted")
		fs.BoolVar(&all, "all", false, "Remove every idle session, ignoring retention policy")
		fs.BoolVar(&yesLocal, "y", false, "Assume yes to confirmation prompts")
		if done, err := parseSub(fs, rest); done {
			return err
		}
		if !c.dry && !c.yes && !yesLocal {
			prompt := "This will permanently remove sessions according to your configured policies. Proceed? (y/N): "
			if all {
				prompt = "This will permanently remove every idle session and its cart. Proceed? (y/N): "
			}
			ok, err := c.confirm(stdout, prompt)
			if err != nil || !ok {
				return err
			}
		}
		return c.clean(stdout, all)

	case "delete":
		fs := c.subFlags("delete", "delete <session-id>...", "Remove specific sessions from storage. This is irreversible.", stderr)
		var yesLocal bool
		fs.BoolVar(&yesLocal, "y", false, "Assume yes to confirmation prompts")
		fs.BoolVar(&c.dry, "dry-run", c.dry, "Don't actually delete; show what would be deleted")
		if done, err := parseSub(fs, rest); done {
			return err
		}
		ids := fs.Args()
		if len(ids) < 1 {
			return fmt.Errorf("delete requires a session id")
		}
		if !c.dry && !c.yes && !yesLocal {
			prompt := fmt.Sprintf("Are you sure you want to delete session '%s'? This is irreversible. (y/N): ", ids[0])
			if len(ids) > 1 {
				prompt = fmt.Sprintf("Are you sure you want to delete %d sessions? This is irreversible. (y/N): ", len(ids))
			}
			ok, err := c.confirm(stdout, prompt)
			if err != nil || !ok {
				return err
			}
		}
		var failed []string
		for _, id := range ids {
			if err := c.delete(stdout, id); err != nil {
				failed = append(failed, fmt.Sprintf("%s: %v", id, err))
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("failed to delete: %s", strings.Join(failed, "; "))
		}
		return nil

	case "info":
		fs := c.subFlags("info", "info <session-id>", "Show the cart stored in a session.", stderr)
		if done, err := parseSub(fs, rest); done {
			return err
		}
		if fs.NArg() < 1 {
			return fmt.Errorf("info requires a session id")
		}
		return c.info(stdout, fs.Arg(0))

	case "path":
		fs := c.subFlags("path", "path [session-id]", "Show the sessions directory or a specific session file path.", stderr)
		if done, err := parseSub(fs, rest); done {
			return err
		}
		if fs.NArg() == 0 {
			dir, err := storage.Dir()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(stdout, dir)
			return nil
		}
		p, err := storage.SessionFilePath(fs.Arg(0))
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stdout, p)
		return nil
	}
	return fmt.Errorf("unknown subcommand: %s", args[0])
}

// parseSub parses a subcommand's flags. done is true when the caller should
// return err immediately, including after -h printed usage.
func parseSub(fs *flag.FlagSet, args []string) (done bool, err error) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return true, nil
		}
		return true, err
	}
	return false, nil
}

func (c *SessionCommand) config() *config.Config {
	if c.cfg == nil {
		return config.NewConfig()
	}
	return c.cfg
}

func (c *SessionCommand) confirm(stdout io.Writer, prompt string) (bool, error) {
	_, _ = fmt.Fprint(stdout, prompt)
	t, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	t = strings.TrimSpace(t)
	if strings.EqualFold(t, "y") || strings.EqualFold(t, "yes") {
		return true, nil
	}
	_, _ = fmt.Fprintln(stdout, "aborted")
	return false, nil
}

func (c *SessionCommand) list(w io.Writer, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %q", format)
	}
	infos, err := storage.ScanSessions()
	if err != nil {
		return err
	}
	// Active sessions first, then most recently updated.
	sort.SliceStable(infos, func(i, j int) bool {
		a, b := infos[i], infos[j]
		if a.IsActive != b.IsActive {
			return a.IsActive
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID < b.ID
	})

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if infos == nil {
			infos = []storage.SessionInfo{}
		}
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		_, _ = fmt.Fprintln(w, "No sessions found")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, si := range infos {
		state := "idle"
		if si.IsActive {
			state = "active"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d bytes\t%s\n", si.ID, si.UpdatedAt.Format(time.RFC3339), si.Size, state)
	}
	return tw.Flush()
}

func (c *SessionCommand) clean(w io.Writer, purge bool) error {
	cleaner := newCleaner(c.cfg)
	cleaner.DryRun = c.dry
	cleaner.Purge = purge

	report, err := cleaner.ExecuteCleanup("")
	if err != nil {
		return err
	}
	if c.dry {
		_, _ = fmt.Fprintln(w, "Dry-run: the following would be removed:")
		for _, id := range report.Removed {
			_, _ = fmt.Fprintln(w, id)
		}
		return nil
	}
	for _, id := range report.Removed {
		_, _ = fmt.Fprintln(w, "removed:", id)
	}
	for _, id := range report.Skipped {
		_, _ = fmt.Fprintln(w, "skipped:", id)
	}
	return nil
}

// delete removes a session file while holding its lock, refusing sessions
// another process has open.
func (c *SessionCommand) delete(w io.Writer, id string) error {
	if c.dry {
		_, _ = fmt.Fprintf(w, "Dry-run: would delete session %s\n", id)
		return nil
	}
	p, err := storage.SessionFilePath(id)
	if err != nil {
		return err
	}
	lockPath, err := storage.SessionLockFilePath(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}
	f, ok, err := storage.AcquireLockHandle(lockPath)
	if err != nil {
		return fmt.Errorf("failed to check session lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s appears active or locked", id)
	}
	if err := os.Remove(p); err != nil {
		// Keep the lock artifact so the session file is never left unlocked.
		_ = f.Close()
		return err
	}
	if err := storage.ReleaseLockHandle(f); err != nil {
		_, _ = fmt.Fprintf(w, "deleted %s (warning: failed to remove lock: %v)\n", id, err)
		return nil
	}
	_, _ = fmt.Fprintln(w, "deleted", id)
	return nil
}

// info prints the cart held by a session without taking its lock.
func (c *SessionCommand) info(w io.Writer, id string) error {
	p, err := storage.SessionFilePath(id)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	var s storage.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse session %s: %w", id, err)
	}
	_, _ = fmt.Fprintf(w, "Session: %s\n", s.SessionID)
	_, _ = fmt.Fprintf(w, "Created: %s\n", s.CreatedAt.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "Updated: %s\n", s.UpdatedAt.Format(time.RFC3339))

	raw, ok := s.Entries[cart.StorageKey]
	if !ok {
		_, _ = fmt.Fprintln(w, "Cart: empty")
		return nil
	}
	items, err := cart.DecodeItems(raw)
	if err != nil {
		return fmt.Errorf("failed to decode cart of session %s: %w", id, err)
	}
	state := cart.State{Items: items}
	_, _ = fmt.Fprintf(w, "Cart: %s\n", cart.CountLabel(state.TotalQuantity()))
	for _, it := range items {
		_, _ = fmt.Fprintf(w, "  %s %s x%d\n", it.Name, formatOptions(it), it.Quantity)
	}
	return nil
}
