//go:build !no_sqlite && !cgo

package db

import (
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/hydrogen/pkg/configs"
)

// 纯 Go 的 modernc 驱动，pragma 通过 _pragma=name(value) 传入.
func sqliteDialector(dsn string) gorm.Dialector {
	if !strings.Contains(dsn, "busy_timeout") {
		dsn = appendParam(dsn, "_pragma", "busy_timeout("+sqliteBusyTimeoutMS+")")
	}

	return sqlite.Open(dsn)
}

func init() {
	RegisterDialectorFactory(configs.SQLite, sqliteDialector)
}
