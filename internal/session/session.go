// Package session resolves the identifier that scopes a storefront cart to
// the terminal it was started from. Two invocations from the same tmux pane,
// screen window, SSH connection or tty see the same cart.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnvSessionID overrides discovery when set.
const EnvSessionID = "STOREFRONT_SESSION_ID"

// IDs have the form {namespace}--{payload} and never exceed MaxIDLength
// bytes, so they can be used directly as file names.
const (
	MaxIDLength = 80
	Delimiter   = "--"
	// ShortHash is the number of hex characters kept from a SHA-256 digest.
	ShortHash = 16
)

// Namespaces identify the source an ID was derived from.
const (
	NamespaceExplicit = "ex"
	NamespaceTmux     = "tmux"
	NamespaceScreen   = "screen"
	NamespaceSSH      = "ssh"
	NamespaceTerminal = "terminal"
	NamespaceTTY      = "tty"
	NamespaceUUID     = "uuid"
)

// Sources reported by Resolve.
const (
	SourceFlag     = "explicit-flag"
	SourceEnv      = "explicit-env"
	SourceTmux     = "tmux"
	SourceScreen   = "screen"
	SourceSSH      = "ssh-env"
	SourceTerminal = "macos-terminal"
	SourceTTY      = "tty"
	SourceUUID     = "uuid-fallback"
)

// Detector hooks, replaced in tests.
var (
	lookupTmux = tmuxPaneTuple
	lookupTTY  = terminalDevice
	newUUID    = uuid.NewString
	goos       = runtime.GOOS
)

// Resolve returns the session ID and the source it came from, trying in
// order: explicit (flag, then STOREFRONT_SESSION_ID), tmux pane, GNU screen,
// SSH connection, macOS terminal session, controlling tty, and finally a
// random UUID.
func Resolve(explicit string) (id, source string, err error) {
	if explicit != "" {
		return explicitID(explicit), SourceFlag, nil
	}
	if v := os.Getenv(EnvSessionID); v != "" {
		return explicitID(v), SourceEnv, nil
	}

	if os.Getenv("TMUX_PANE") != "" {
		if raw, err := lookupTmux(); err == nil {
			return tmuxID(raw), SourceTmux, nil
		}
	}
	if sty := os.Getenv("STY"); sty != "" {
		return hashedID(NamespaceScreen, "screen:"+sty), SourceScreen, nil
	}
	if conn := os.Getenv("SSH_CONNECTION"); conn != "" {
		return sshID(conn), SourceSSH, nil
	}
	if goos == "darwin" {
		if v := os.Getenv("TERM_SESSION_ID"); v != "" {
			return hashedID(NamespaceTerminal, "terminal:"+v), SourceTerminal, nil
		}
	}
	if dev := lookupTTY(); dev != "" {
		return hashedID(NamespaceTTY, "tty:"+dev), SourceTTY, nil
	}

	u := newUUID()
	if u == "" {
		return "", "", fmt.Errorf("session detection failed: no uuid")
	}
	return format(NamespaceUUID, u), SourceUUID, nil
}

// explicitID namespaces a user supplied ID. A value that already carries a
// namespace keeps it, sanitized.
func explicitID(v string) string {
	if ns, payload, ok := strings.Cut(v, Delimiter); ok {
		return format(sanitize(ns), payload)
	}
	return format(NamespaceExplicit, v)
}

func sshID(conn string) string {
	fields := strings.Fields(conn)
	key := "ssh:" + conn
	if len(fields) == 4 {
		// client ip, client port, server ip, server port
		key = "ssh:" + strings.Join(fields, ":")
	}
	return hashedID(NamespaceSSH, key)
}

func hashedID(namespace, key string) string {
	return format(namespace, digest(key)[:ShortHash])
}

// format joins namespace and a sanitized payload. Payloads that would push
// the ID past MaxIDLength are truncated and suffixed with a hash of the
// original payload so distinct inputs stay distinct.
func format(namespace, payload string) string {
	sum := digest(payload)
	payload = sanitize(payload)

	room := MaxIDLength - len(namespace) - len(Delimiter)
	if len(payload) > room {
		keep := room - 9
		if keep < 8 {
			payload = sum[:room]
		} else {
			payload = payload[:keep] + "_" + sum[:8]
		}
	}
	return namespace + Delimiter + payload
}

var tmuxTuple = regexp.MustCompile(`^\$(\w+):@(\w+):%(\w+)$`)

// tmuxID renders "$1:@2:%3" as tmux--s1.w2.p3.
func tmuxID(raw string) string {
	if m := tmuxTuple.FindStringSubmatch(raw); m != nil {
		return format(NamespaceTmux, fmt.Sprintf("s%s.w%s.p%s", m[1], m[2], m[3]))
	}
	r := strings.NewReplacer("$", "s", "@", "w", "%", "p", ":", ".")
	return format(NamespaceTmux, r.Replace(raw))
}

func tmuxPaneTuple() (string, error) {
	bin, err := exec.LookPath("tmux")
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	out, err := exec.CommandContext(ctx, bin, "display-message", "-p", "#{session_id}:#{window_id}:#{pane_id}").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// sanitize keeps [A-Za-z0-9._-] and replaces every other rune with '_'.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func digest(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
