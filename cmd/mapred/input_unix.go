//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile memory-maps path read-only. A zero-length file is returned as a
// nil slice directly, since mmap refuses zero-length mappings. The
// returned func unmaps (if mapped) and closes the underlying file.
func mapFile(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if fi.Size() == 0 {
		return nil, f.Close, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return data, func() error {
		if err := unix.Munmap(data); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}
