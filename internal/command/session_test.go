package command

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rugurujane/storefront/internal/config"
	"github.com/rugurujane/storefront/internal/storage"
)

// writeSession stores a raw session file for id, last modified at mtime.
func writeSession(t *testing.T, id, body string, mtime time.Time) string {
	t.Helper()
	p, err := storage.SessionFilePath(id)
	if err != nil {
		t.Fatalf("session path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatalf("write session: %v", err)
	}
	if err := os.Chtimes(p, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return p
}

func runSession(t *testing.T, cfg *config.Config, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewSessionCommand(cfg)
	cmd.stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	err := cmd.Execute(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestSessionID(t *testing.T) {
	_, cfg := setupShop(t)
	t.Setenv("STOREFRONT_SESSION_ID", "test")

	out, errOut, err := runSession(t, cfg, "", "id")
	if err != nil {
		t.Fatalf("id failed: %v", err)
	}
	if strings.TrimSpace(out) != "ex--test" {
		t.Errorf("expected env session id, got %q", out)
	}
	if !strings.Contains(errOut, "source: explicit-env") {
		t.Errorf("expected env source, got %q", errOut)
	}

	out, errOut, err = runSession(t, cfg, "", "id", "-session", "mine")
	if err != nil {
		t.Fatalf("id failed: %v", err)
	}
	if strings.TrimSpace(out) != "ex--mine" {
		t.Errorf("expected flag session id, got %q", out)
	}
	if !strings.Contains(errOut, "source: explicit-flag") {
		t.Errorf("expected flag source, got %q", errOut)
	}
}

func TestSessionListTextAndJSON(t *testing.T) {
	_, cfg := setupShop(t)
	now := time.Now()
	writeSession(t, "ex--old", "{}", now.Add(-48*time.Hour))
	writeSession(t, "ex--new", "{}", now.Add(-time.Hour))

	out, _, err := runSession(t, cfg, "", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "ex--old") || !strings.Contains(out, "ex--new") {
		t.Fatalf("expected both sessions in list, got:\n%s", out)
	}
	if strings.Index(out, "ex--new") > strings.Index(out, "ex--old") {
		t.Errorf("expected newest session first, got:\n%s", out)
	}

	out, _, err = runSession(t, cfg, "", "list", "-format", "json")
	if err != nil {
		t.Fatalf("list json failed: %v", err)
	}
	var infos []storage.SessionInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(infos) != 2 || infos[0].ID != "ex--new" || infos[1].ID != "ex--old" {
		t.Errorf("unexpected sessions: %+v", infos)
	}

	if _, _, err := runSession(t, cfg, "", "list", "-format", "yaml"); err == nil {
		t.Error("expected invalid format error")
	}
}

func TestSessionListEmpty(t *testing.T) {
	_, cfg := setupShop(t)

	out, _, err := runSession(t, cfg, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No sessions found") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSessionCleanPolicyAndPurge(t *testing.T) {
	_, cfg := setupShop(t)
	cfg.Sessions.MaxAgeDays = 1
	now := time.Now()
	oldPath := writeSession(t, "ex--old", "{}", now.Add(-48*time.Hour))
	newPath := writeSession(t, "ex--new", "{}", now.Add(-time.Hour))

	out, _, err := runSession(t, cfg, "", "clean", "-dry-run")
	if err != nil {
		t.Fatalf("dry-run failed: %v", err)
	}
	if !strings.Contains(out, "ex--old") || strings.Contains(out, "ex--new") {
		t.Errorf("unexpected dry-run report:\n%s", out)
	}
	if _, err := os.Stat(oldPath); err != nil {
		t.Fatalf("dry-run removed a session: %v", err)
	}

	out, _, err = runSession(t, cfg, "n\n", "clean")
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if !strings.Contains(out, "aborted") {
		t.Errorf("expected aborted prompt, got %q", out)
	}
	if _, err := os.Stat(oldPath); err != nil {
		t.Fatalf("declined clean removed a session: %v", err)
	}

	out, _, err = runSession(t, cfg, "", "clean", "-y")
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if !strings.Contains(out, "removed: ex--old") {
		t.Errorf("unexpected clean output:\n%s", out)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("expected old session to be removed")
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("expected new session to persist: %v", err)
	}

	if _, _, err := runSession(t, cfg, "yes\n", "clean", "-all"); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if _, err := os.Stat(newPath); !os.IsNotExist(err) {
		t.Error("expected purge to remove every idle session")
	}
}

func TestSessionDelete(t *testing.T) {
	_, cfg := setupShop(t)
	p := writeSession(t, "ex--gone", "{}", time.Now())

	out, _, err := runSession(t, cfg, "", "delete", "-dry-run", "ex--gone")
	if err != nil {
		t.Fatalf("dry-run delete failed: %v", err)
	}
	if !strings.Contains(out, "would delete session ex--gone") {
		t.Errorf("unexpected output %q", out)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("dry-run deleted the session: %v", err)
	}

	out, _, err = runSession(t, cfg, "", "delete", "-y", "ex--gone")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, "deleted ex--gone") {
		t.Errorf("unexpected output %q", out)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Error("expected session file to be removed")
	}

	if _, _, err := runSession(t, cfg, "", "delete", "-y", "ex--missing"); err == nil {
		t.Error("expected error deleting a missing session")
	}
	if _, _, err := runSession(t, cfg, "", "delete"); err == nil {
		t.Error("expected error without a session id")
	}
}

func TestSessionInfoShowsCart(t *testing.T) {
	_, cfg := setupShop(t)
	body := `{"version":"1.0.0","session_id":"ex--shopper","created_at":"2026-01-02T03:04:05Z","updated_at":"2026-01-02T03:04:05Z",
"entries":{"cart":[{"productId":"huarache-x-stussy-le","name":"Nike Air Huarache Le","unitPrice":{"amount":144.69,"currencySymbol":"$"},
"imageRef":"a.jpg","selectedOptions":{"Size":"40"},"quantity":2}]}}`
	writeSession(t, "ex--shopper", body, time.Now())
	writeSession(t, "ex--empty", `{"version":"1.0.0","session_id":"ex--empty","entries":{}}`, time.Now())

	out, _, err := runSession(t, cfg, "", "info", "ex--shopper")
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"Session: ex--shopper", "Cart: 2 Items", "Nike Air Huarache Le (Size: 40) x2"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	out, _, err = runSession(t, cfg, "", "info", "ex--empty")
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if !strings.Contains(out, "Cart: empty") {
		t.Errorf("expected empty cart, got:\n%s", out)
	}

	if _, _, err := runSession(t, cfg, "", "info", "ex--nope"); err == nil {
		t.Error("expected error for a missing session")
	}
}

func TestSessionPath(t *testing.T) {
	_, cfg := setupShop(t)
	want, _ := storage.SessionFilePath("ex--x")

	out, _, err := runSession(t, cfg, "", "path")
	if err != nil {
		t.Fatalf("path failed: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Dir(want) {
		t.Errorf("expected %q, got %q", filepath.Dir(want), out)
	}

	out, _, err = runSession(t, cfg, "", "path", "ex--x")
	if err != nil {
		t.Fatalf("path failed: %v", err)
	}
	if strings.TrimSpace(out) != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestSessionUnknownSubcommand(t *testing.T) {
	_, cfg := setupShop(t)
	if _, _, err := runSession(t, cfg, "", "bogus"); err == nil {
		t.Error("expected unknown subcommand error")
	}
}
