//go:build !no_sqlite && cgo

package db

import (
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/hydrogen/pkg/configs"
)

// mattn/go-sqlite3 驱动.
func sqliteDialector(dsn string) gorm.Dialector {
	if !strings.Contains(dsn, "_busy_timeout") {
		dsn = appendParam(dsn, "_busy_timeout", sqliteBusyTimeoutMS)
	}

	return sqlite.Open(dsn)
}

func init() {
	RegisterDialectorFactory(configs.SQLite, sqliteDialector)
}
