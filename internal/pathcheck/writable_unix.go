// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build unix

package pathcheck

import "golang.org/x/sys/unix"

// writable asks the kernel whether the current user may create entries
// in dir.
func writable(dir string) error {
	return unix.Access(dir, unix.W_OK|unix.X_OK)
}
