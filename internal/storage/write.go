//go:build !windows

package storage

import "github.com/google/renameio/v2"

// writeAtomic replaces path through a temp file renamed into place
func writeAtomic(path string, data []byte) error {
	return renameio.WriteFile(path, data, 0644)
}
