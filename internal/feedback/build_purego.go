//go:build !cgo_sqlite

package feedback

// Compiled when building without CGO. Uses the pure Go SQLite driver, which
// needs no C toolchain and cross-compiles cleanly.
//
// Build command:
//   CGO_ENABLED=0 go build ./...

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
