// Package lockfile guards against more than one daemon instance running
// at once (spec.md §5) using an exclusive, non-blocking advisory flock on
// a path the caller supplies.
package lockfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Lock holds an open, flocked file. Release drops the lock and closes it.
type Lock struct {
	file *os.File
}

// Acquire opens (creating if necessary) the file at path and takes an
// exclusive, non-blocking flock on it. It returns ErrHeld if another
// process already holds the lock.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("lockfile: open %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, ErrHeld
		}
		return nil, fmt.Errorf("lockfile: flock %s: %w", path, err)
	}

	if err := f.Truncate(0); err == nil {
		fmt.Fprintf(f, "%d\n", os.Getpid())
	}

	return &Lock{file: f}, nil
}

// Release drops the flock and closes the underlying file.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		return fmt.Errorf("lockfile: unlock: %w", err)
	}
	return l.file.Close()
}

// ErrHeld is returned by Acquire when another process already holds the
// lock.
var ErrHeld = fmt.Errorf("lockfile: already held by another process")
