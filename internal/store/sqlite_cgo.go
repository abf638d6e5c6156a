//go:build cgo

package store

import (
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteDriverName = "sqlite3"

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1&_busy_timeout=5000"
}
