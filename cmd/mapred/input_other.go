//go:build !unix

package main

import "os"

// mapFile reads path into memory wholesale, since mmap has no portable
// equivalent on non-Unix platforms.
func mapFile(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
