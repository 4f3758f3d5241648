//go:build !no_sqlite

package db

import "strings"

// sqliteBusyTimeoutMS 写锁等待时间，避免并发写入立即返回 SQLITE_BUSY.
const sqliteBusyTimeoutMS = "5000"

// appendParam 向 DSN 追加查询参数.
func appendParam(dsn, key, value string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return dsn + sep + key + "=" + value
}
