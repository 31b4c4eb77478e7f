//go:build !linux

package listz

import "os"

// preallocate is a no-op on platforms without a fallocate-style
// syscall; the file simply grows as writes land.
func preallocate(f *os.File, nbytes int64) error {
	return nil
}
