//go:build linux

package listz

import (
	"os"

	"golang.org/x/sys/unix"
)

// preallocate hints to the filesystem that nbytes will be written to f,
// letting it lay out contiguous blocks up front instead of growing the
// file extent-by-extent during the streaming writes that follow.
func preallocate(f *os.File, nbytes int64) error {
	if nbytes <= 0 {
		return nil
	}
	err := unix.Fallocate(int(f.Fd()), 0, 0, nbytes)
	if err == unix.EOPNOTSUPP || err == unix.ENOSYS {
		return nil
	}
	return err
}
