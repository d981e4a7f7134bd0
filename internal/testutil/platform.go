package testutil

import (
	"os"
	"runtime"
	"testing"
)

// Platform describes where the tests are running.
type Platform struct {
	IsWindows bool
	IsRoot    bool
	UID       int
}

// DetectPlatform inspects the current runtime environment.
func DetectPlatform(t testing.TB) Platform {
	t.Helper()
	uid := os.Geteuid()
	p := Platform{
		IsWindows: runtime.GOOS == "windows",
		IsRoot:    uid == 0,
		UID:       uid,
	}
	t.Logf("platform: os=%s uid=%d", runtime.GOOS, uid)
	return p
}

// CanRestrictPermissions reports whether chmod-based failure simulation
// works: root bypasses mode bits and Windows ignores most of them.
func (p Platform) CanRestrictPermissions() bool {
	return !p.IsWindows && !p.IsRoot
}

// SkipUnlessPermissionsEnforced skips tests that rely on a read-only
// directory or file rejecting writes.
func SkipUnlessPermissionsEnforced(t testing.TB, reason string) {
	t.Helper()
	if p := DetectPlatform(t); !p.CanRestrictPermissions() {
		t.Skipf("skipping: %s (permissions not enforced for uid %d on %s)", reason, p.UID, runtime.GOOS)
	}
}
