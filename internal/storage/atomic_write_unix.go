//go:build !windows

package storage

import "errors"

// atomicRenameWindows is unreachable outside Windows; os.Rename already
// replaces the target atomically there.
func atomicRenameWindows(oldpath, newpath string) error {
	return errors.New("storage: windows rename used on " + oldpath + " -> " + newpath)
}
