package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rugurujane/storefront/internal/storage"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STOREFRONT_CONFIG", filepath.Join(dir, "config"))
	t.Setenv("STOREFRONT_STORAGE_BACKEND", "memory")
	t.Setenv("STOREFRONT_LOG_FILE", "")
	storage.SetTestPaths(filepath.Join(dir, "sessions"))
	t.Cleanup(storage.ResetPaths)
	return dir
}

func TestRun(t *testing.T) {
	isolate(t)

	cases := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "no command shows help", args: nil, want: "Available commands:"},
		{name: "help command", args: []string{"help"}, want: "shop"},
		{name: "help flag", args: []string{"--help"}, want: "Available commands:"},
		{name: "short help flag", args: []string{"-h"}, want: "Available commands:"},
		{name: "version command", args: []string{"version"}, want: "storefront version " + version},
		{name: "help for a command", args: []string{"help", "cart"}, want: "Usage: storefront cart"},
		{name: "unknown command", args: []string{"nonexistent"}, wantErr: true},
		{name: "bad flag", args: []string{"cart", "--bogus"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tc.args, &stdout, &stderr)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got output %q", stdout.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr.String())
			}
			if !strings.Contains(stdout.String(), tc.want) {
				t.Errorf("expected %q in output:\n%s", tc.want, stdout.String())
			}
		})
	}
}

func TestRunCommandHelpFlag(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	if err := run([]string{"catalog", "-h"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage: storefront catalog") || !strings.Contains(stderr.String(), "-where") {
		t.Errorf("unexpected usage output:\n%s", stderr.String())
	}
}

func TestRunInitThenConfig(t *testing.T) {
	dir := isolate(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init"}, &stdout, &stderr); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(stdout.String(), filepath.Join(dir, "config")) {
		t.Errorf("unexpected init output %q", stdout.String())
	}

	stdout.Reset()
	if err := run([]string{"config", "currency.locale", "de"}, &stdout, &stderr); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	stdout.Reset()
	if err := run([]string{"config", "--all"}, &stdout, &stderr); err != nil {
		t.Fatalf("config --all failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "currency.locale") {
		t.Errorf("unexpected config output:\n%s", stdout.String())
	}
}
