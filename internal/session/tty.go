package session

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// terminalDevice returns the device path of stdin when it is a terminal,
// e.g. /dev/pts/3, or "" when it cannot be determined.
func terminalDevice() string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ""
	}
	for _, link := range []string{
		fmt.Sprintf("/proc/self/fd/%d", fd),
		fmt.Sprintf("/dev/fd/%d", fd),
	} {
		if name, err := os.Readlink(link); err == nil && name != "" {
			return name
		}
	}
	return ""
}
