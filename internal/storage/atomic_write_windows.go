//go:build windows

package storage

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// atomicRenameWindows moves oldpath over an existing newpath in one step.
func atomicRenameWindows(oldpath, newpath string) error {
	var paths [2]*uint16
	for i, p := range []string{oldpath, newpath} {
		u, err := windows.UTF16PtrFromString(p)
		if err != nil {
			return fmt.Errorf("storage: path %q: %w", p, err)
		}
		paths[i] = u
	}
	if err := windows.MoveFileEx(paths[0], paths[1], windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH); err != nil {
		return fmt.Errorf("storage: replace %s: %w", newpath, err)
	}
	return nil
}
