package storage

import "os"

// renameio has no Windows support; rename over an open file is not atomic there
func writeAtomic(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
