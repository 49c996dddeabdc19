// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !unix

package pathcheck

import "os"

// writable probes dir by creating and removing a temporary file.
func writable(dir string) error {
	f, err := os.CreateTemp(dir, ".eventcsv-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
