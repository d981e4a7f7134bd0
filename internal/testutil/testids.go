package testutil

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync/atomic"
)

// maxSafeName bounds the test-name segment of a generated id so that the
// resulting session file name stays well under common path limits.
const maxSafeName = 48

var sessionCounter int64

// NewTestSessionID generates a process-local unique session ID for tests.
// Pass in t.Name() from the caller to make IDs traceable per-test. Long
// names are truncated and suffixed with a short hash of the full name.
func NewTestSessionID(prefix, tname string) string {
	id := atomic.AddInt64(&sessionCounter, 1)
	return fmt.Sprintf("%s-%s-%d", prefix, safeName(tname), id)
}

func safeName(tname string) string {
	var b strings.Builder
	for _, r := range tname {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if len(s) <= maxSafeName {
		return s
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(tname))
	return fmt.Sprintf("%s_%08x", s[:maxSafeName-9], h.Sum32())
}
