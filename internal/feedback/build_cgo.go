//go:build cgo_sqlite

package feedback

// Compiled when building with CGO and the cgo_sqlite tag. The C driver is
// noticeably faster for frequent side-logging under load.
//
// Build command:
//   CGO_ENABLED=1 go build -tags cgo_sqlite ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
