//go:build !cgo

package store

import (
	"strings"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
