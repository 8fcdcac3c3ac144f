//go:build !cgo

package db

import _ "modernc.org/sqlite"

// pure Go driver for builds with CGO_ENABLED=0
const sqliteDriver = "sqlite"
